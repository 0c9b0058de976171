package types

// Gender values accepted on a member.
const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
	GenderOther  Gender = "other"
)

// Gender is the enumerated sex of a member.
type Gender string

// validGenders is the set of recognized gender values.
var validGenders = map[Gender]bool{
	GenderMale:   true,
	GenderFemale: true,
	GenderOther:  true,
}

// Valid reports whether g is one of the Gender constants.
func (g Gender) Valid() bool {
	return validGenders[g]
}

// Member is one node of the family tree: a person's record plus ownership of
// their children. Optional string fields use "" for absent. A nil and an
// empty Children slice both denote a leaf.
//
// Members reachable from a snapshot handed out by the tree operations must
// be treated as read-only; operations return rebuilt values instead of
// modifying them.
type Member struct {
	ID         string    `json:"id" yaml:"id"`                                     // Assigned on creation, never changed.
	Name       string    `json:"name" yaml:"name"`                                 // Display name (required, non-empty).
	Gender     Gender    `json:"gender" yaml:"gender"`                             // One of the Gender constants.
	BirthDate  string    `json:"birthDate" yaml:"birth_date"`                      // Conventionally a 4-digit year.
	DeathDate  string    `json:"deathDate,omitempty" yaml:"death_date,omitempty"`  // Empty means living or unknown.
	PhotoURL   string    `json:"photoUrl,omitempty" yaml:"photo_url,omitempty"`    // URL or embedded data reference.
	Bio        string    `json:"bio,omitempty" yaml:"bio,omitempty"`               // Set by the biography generator.
	Occupation string    `json:"occupation,omitempty" yaml:"occupation,omitempty"` // Free text.
	BirthPlace string    `json:"birthPlace,omitempty" yaml:"birth_place,omitempty"`
	Partner    string    `json:"partner,omitempty" yaml:"partner,omitempty"` // Partner's name, free text.
	Children   []*Member `json:"children,omitempty" yaml:"children,omitempty"`
}

// IsLeaf reports whether the member has no children.
func (m *Member) IsLeaf() bool {
	return len(m.Children) == 0
}

// ShallowCopy returns a copy of m whose Children slice is a fresh slice
// holding the same child pointers. Appending to or reordering the copy's
// children never affects m.
func (m *Member) ShallowCopy() *Member {
	cp := *m
	if m.Children != nil {
		cp.Children = make([]*Member, len(m.Children))
		copy(cp.Children, m.Children)
	}
	return &cp
}

// Clone returns a deep copy of the subtree rooted at m.
func (m *Member) Clone() *Member {
	if m == nil {
		return nil
	}
	cp := *m
	if m.Children != nil {
		cp.Children = make([]*Member, len(m.Children))
		for i, child := range m.Children {
			cp.Children[i] = child.Clone()
		}
	}
	return &cp
}

// WithFields returns a copy of m carrying every field of f and m's own ID
// and Children.
func (m *Member) WithFields(f MemberFields) *Member {
	cp := m.ShallowCopy()
	cp.Name = f.Name
	cp.Gender = f.Gender
	cp.BirthDate = f.BirthDate
	cp.DeathDate = f.DeathDate
	cp.PhotoURL = f.PhotoURL
	cp.BirthPlace = f.BirthPlace
	cp.Occupation = f.Occupation
	cp.Partner = f.Partner
	return cp
}

// Fields returns the editable fields of m as a MemberFields bundle.
func (m *Member) Fields() MemberFields {
	return MemberFields{
		Name:       m.Name,
		Gender:     m.Gender,
		BirthDate:  m.BirthDate,
		DeathDate:  m.DeathDate,
		PhotoURL:   m.PhotoURL,
		BirthPlace: m.BirthPlace,
		Occupation: m.Occupation,
		Partner:    m.Partner,
	}
}
