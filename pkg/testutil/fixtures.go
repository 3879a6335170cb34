package testutil

import (
	"github.com/google/uuid"
)

// Fixed identifiers for deterministic testing.
var (
	TestDecisionID1 = uuid.MustParse("00000000-0000-0000-0000-000000000001")
	TestDecisionID2 = uuid.MustParse("00000000-0000-0000-0000-000000000002")
)

// Fixed upstream primary keys for deterministic testing.
const (
	TestApplicationID int64 = 2000000101
	TestCustomerID    int64 = 1000000101
)
