// Package blood defines the closed set of blood groups and the
// transfusion-compatibility rules between them.
package blood

// Group is one of the eight ABO/Rh blood groups.
type Group string

const (
	ONeg  Group = "O-"
	OPos  Group = "O+"
	ANeg  Group = "A-"
	APos  Group = "A+"
	BNeg  Group = "B-"
	BPos  Group = "B+"
	ABNeg Group = "AB-"
	ABPos Group = "AB+"
)

// Groups lists every valid blood group.
var Groups = []Group{ONeg, OPos, ANeg, APos, BNeg, BPos, ABNeg, ABPos}

// compatibility maps a donor group to the recipient groups it may supply.
// Fixed transfusion-medicine rules; do not derive.
var compatibility = map[Group][]Group{
	ONeg:  {ONeg, OPos, ANeg, APos, BNeg, BPos, ABNeg, ABPos},
	OPos:  {OPos, APos, BPos, ABPos},
	ANeg:  {ANeg, APos, ABNeg, ABPos},
	APos:  {APos, ABPos},
	BNeg:  {BNeg, BPos, ABNeg, ABPos},
	BPos:  {BPos, ABPos},
	ABNeg: {ABNeg, ABPos},
	ABPos: {ABPos},
}

// Parse validates a free-form blood group string. The second return value
// reports whether the input names a known group.
func Parse(s string) (Group, bool) {
	g := Group(s)
	if _, ok := compatibility[g]; !ok {
		return "", false
	}
	return g, true
}

// Valid reports whether g is one of the eight known groups.
func (g Group) Valid() bool {
	_, ok := compatibility[g]
	return ok
}

// CompatibleRecipients returns the recipient groups a donor of the given
// group may safely supply. Unknown groups yield an empty slice, never an
// error.
func CompatibleRecipients(donor Group) []Group {
	recipients, ok := compatibility[donor]
	if !ok {
		return nil
	}
	out := make([]Group, len(recipients))
	copy(out, recipients)
	return out
}

// CompatibleDonors returns the donor groups that may safely supply a
// recipient of the given group. Inverse of CompatibleRecipients; unknown
// groups yield an empty slice.
func CompatibleDonors(recipient Group) []Group {
	if !recipient.Valid() {
		return nil
	}
	var donors []Group
	for _, donor := range Groups {
		for _, r := range compatibility[donor] {
			if r == recipient {
				donors = append(donors, donor)
				break
			}
		}
	}
	return donors
}

// CanDonateTo reports whether a donor of group donor may supply a recipient
// of group recipient.
func CanDonateTo(donor, recipient Group) bool {
	for _, g := range compatibility[donor] {
		if g == recipient {
			return true
		}
	}
	return false
}
