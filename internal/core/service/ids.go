package service

import (
	"crypto/rand"
	"encoding/binary"
	"fmt"
	"time"
)

// randomDigits returns a zero-padded numeric string of n digits.
func randomDigits(n int) string {
	max := int64(1)
	for i := 0; i < n; i++ {
		max *= 10
	}

	b := make([]byte, 8)
	if _, err := rand.Read(b); err != nil {
		// fallback: use current nanoseconds
		return fmt.Sprintf("%0*d", n, time.Now().UnixNano()%max)
	}
	v := int64(binary.BigEndian.Uint64(b) &^ (1 << 63))
	return fmt.Sprintf("%0*d", n, v%max)
}

// Role-scoped identifier formats follow the upstream record conventions.

func generatePatientID(now time.Time) string {
	return fmt.Sprintf("PAT-%s-%s", now.UTC().Format("20060102"), randomDigits(4))
}

func generatePractitionerID() string {
	return "DR-" + randomDigits(6)
}

func generateOrganizationID() string {
	return "HOSP-" + randomDigits(6)
}

func generateLoanProviderID() string {
	return "LOANP-" + randomDigits(6)
}

func generateLoanID() string {
	return "LOAN-" + randomDigits(6)
}
