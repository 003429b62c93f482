package datasource

import (
	"fmt"

	"github.com/zeebo/blake3"

	"github.com/felixgeelhaar/portal/internal/domain"
)

// DocumentDigest returns the hex blake3 hash of a contract document's
// content, shown next to downloads so they can be compared later.
func DocumentDigest(doc *domain.ContractDocument) string {
	sum := blake3.Sum256([]byte(doc.Content))
	return fmt.Sprintf("%x", sum[:])
}
