package retry

import (
	"errors"
	"net"
	"strings"
	"syscall"

	"github.com/jackc/pgx/v5/pgconn"
)

// PostgresClassifier decides whether a probe error means "not up yet"
// (keep probing) or "will never work as configured" (stop now).
//
// A database that is still starting surfaces as connection refused, a
// closed socket, or one of the class 08/53/57 server codes. Authentication
// failures and unknown databases are configuration mistakes; retrying them
// only delays the inevitable non-zero exit.
type PostgresClassifier struct{}

// NewPostgresClassifier creates a new classifier.
func NewPostgresClassifier() *PostgresClassifier {
	return &PostgresClassifier{}
}

// IsTransient reports whether err is worth another probe.
func (c *PostgresClassifier) IsTransient(err error) bool {
	if err == nil {
		return false
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return transientPgCode(pgErr.Code)
	}

	if isNetworkError(err) {
		return true
	}

	return matchesTransientMessage(err.Error())
}

// transientPgCode checks server-reported SQLSTATE codes.
// See https://www.postgresql.org/docs/current/errcodes-appendix.html
func transientPgCode(code string) bool {
	// Whole classes that clear up on their own:
	//   08 - connection exception
	//   53 - insufficient resources (too many connections, out of memory)
	//   57 - operator intervention (shutdown in progress, cannot connect now)
	switch {
	case strings.HasPrefix(code, "08"),
		strings.HasPrefix(code, "53"),
		strings.HasPrefix(code, "57"):
		return true
	}

	switch code {
	case "40001", "40P01": // serialization failure, deadlock
		return true
	case "55P03": // lock not available
		return true
	}
	return false
}

func isNetworkError(err error) bool {
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		// A name that does not resolve yet is the normal state while a
		// sibling container's DNS entry is being registered.
		return dnsErr.IsNotFound || dnsErr.Temporary() || dnsErr.Timeout()
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) {
		if opErr.Temporary() || opErr.Timeout() {
			return true
		}
		for _, errno := range []syscall.Errno{
			syscall.ECONNREFUSED,
			syscall.ECONNRESET,
			syscall.ENETUNREACH,
			syscall.EHOSTUNREACH,
		} {
			if errors.Is(opErr.Err, errno) {
				return true
			}
		}
	}
	return false
}

// matchesTransientMessage is the fallback for wrapped errors that lost
// their concrete type on the way up.
func matchesTransientMessage(msg string) bool {
	msg = strings.ToLower(msg)
	for _, pattern := range []string{
		"connection refused",
		"connection reset",
		"i/o timeout",
		"broken pipe",
		"no such host",
		"network is unreachable",
		"server closed the connection",
		"unexpected eof",
		"too many connections",
		"the database system is starting up",
	} {
		if strings.Contains(msg, pattern) {
			return true
		}
	}
	return false
}
