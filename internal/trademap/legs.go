package trademap

import (
	"fmt"

	"github.com/palace-finmktstech-latam/cr2.0/internal/mapping"
)

// legAbsent marks a canonical role with no matching input leg.
const legAbsent = -1

// LegAssignment records which physical input leg (0 or 1) plays each
// canonical role for one record. A role left at legAbsent has no matching
// input leg and is omitted from the output.
type LegAssignment struct {
	ReceiveSource int
	PaySource     int
}

// HasReceive reports whether an input leg was assigned the receive role.
func (la LegAssignment) HasReceive() bool { return la.ReceiveSource != legAbsent }

// HasPay reports whether an input leg was assigned the pay role.
func (la LegAssignment) HasPay() bool { return la.PaySource != legAbsent }

// ResolveLegAssignment inspects the role markers of both input legs and
// assigns them to the canonical receive/pay roles. Missing or unrecognized
// markers are not errors: the corresponding canonical leg is simply dropped.
//
// When both input legs claim the same role, the later-evaluated index (1)
// overwrites the earlier assignment. That tie-break is inherited upstream
// behavior and is reported as a warning rather than failing the record.
func ResolveLegAssignment(rec Record, cfg *mapping.Config) (LegAssignment, []string) {
	la := LegAssignment{ReceiveSource: legAbsent, PaySource: legAbsent}

	var warnings []string

	for idx := 0; idx <= 1; idx++ {
		field := resolveTemplate(cfg.LegAssignment.RoleField, la, idx)
		role := rec[field]

		switch role {
		case cfg.LegAssignment.Roles.Receive:
			if la.HasReceive() {
				warnings = append(warnings, fmt.Sprintf(
					"both input legs carry receive role %q; leg %d overrides leg %d",
					role, idx, la.ReceiveSource))
			}

			la.ReceiveSource = idx

		case cfg.LegAssignment.Roles.Pay:
			if la.HasPay() {
				warnings = append(warnings, fmt.Sprintf(
					"both input legs carry pay role %q; leg %d overrides leg %d",
					role, idx, la.PaySource))
			}

			la.PaySource = idx
		}
	}

	return la, warnings
}
