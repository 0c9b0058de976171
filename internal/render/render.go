// Package render writes human-readable views of a family tree: an indented
// outline, a detail card for one member, and summary statistics.
package render

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/mesh-intelligence/familytree/internal/store"
	"github.com/mesh-intelligence/familytree/pkg/types"
)

// Tree connectors.
const (
	branch = "├── "
	last   = "└── "
	pipe   = "│   "
	space  = "    "
)

// SelectedMarker follows the selected member in an outline.
const SelectedMarker = "◀"

// Outline writes root and its descendants, one member per line, with tree
// connectors showing the parent of each. The member whose ID is selectedID
// is highlighted. A nil root writes nothing.
func Outline(w io.Writer, root *types.Member, selectedID string) error {
	if root == nil {
		return nil
	}
	var b strings.Builder
	outline(&b, root, selectedID, "", "")
	_, err := io.WriteString(w, b.String())
	return err
}

func outline(b *strings.Builder, m *types.Member, selectedID, prefix, connector string) {
	b.WriteString(styles.Muted.Render(prefix + connector))
	b.WriteString(summary(m, m.ID == selectedID))
	b.WriteByte('\n')

	childPrefix := prefix
	switch connector {
	case branch:
		childPrefix += pipe
	case last:
		childPrefix += space
	}
	for i, c := range m.Children {
		conn := branch
		if i == len(m.Children)-1 {
			conn = last
		}
		outline(b, c, selectedID, childPrefix, conn)
	}
}

// summary is the one-line form of m used in the outline.
func summary(m *types.Member, selected bool) string {
	name := styles.Name.Render(m.Name)
	if selected {
		name = styles.Selected.Render(m.Name)
	}
	parts := []string{name}
	if y := Years(m); y != "" {
		parts = append(parts, styles.Muted.Render("("+y+")"))
	}
	parts = append(parts, genderMarker(m.Gender), styles.Muted.Render("["+m.ID+"]"))
	if selected {
		parts = append(parts, styles.Selected.Render(SelectedMarker))
	}
	return strings.Join(parts, " ")
}

// Years returns the lifespan of m as "1945-2020", "1945-" for a living
// member, "?-2020" when only the death year is known, or "" when neither
// date carries a year.
func Years(m *types.Member) string {
	born := store.BirthYear(m.BirthDate)
	died := store.BirthYear(m.DeathDate)
	switch {
	case born == 0 && died == 0:
		return ""
	case died == 0:
		return strconv.Itoa(born) + "-"
	case born == 0:
		return "?-" + strconv.Itoa(died)
	default:
		return strconv.Itoa(born) + "-" + strconv.Itoa(died)
	}
}

func genderMarker(g types.Gender) string {
	switch g {
	case types.GenderMale:
		return styles.Male.Render("♂")
	case types.GenderFemale:
		return styles.Female.Render("♀")
	default:
		return styles.Other.Render("⚥")
	}
}

// Detail writes every field of m, its number of children and its biography.
func Detail(w io.Writer, m *types.Member) error {
	var b strings.Builder
	b.WriteString(styles.Title.Render(m.Name))
	b.WriteByte('\n')

	rows := []struct{ label, value string }{
		{"ID", m.ID},
		{"Gender", string(m.Gender)},
		{"Born", m.BirthDate},
		{"Died", m.DeathDate},
		{"Birthplace", m.BirthPlace},
		{"Occupation", m.Occupation},
		{"Partner", m.Partner},
		{"Photo", m.PhotoURL},
		{"Children", strconv.Itoa(len(m.Children))},
	}
	for _, r := range rows {
		b.WriteString(styles.Label.Render(r.label))
		b.WriteString(orDash(r.value))
		b.WriteByte('\n')
	}
	if m.Bio != "" {
		b.WriteByte('\n')
		b.WriteString(m.Bio)
		b.WriteByte('\n')
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}

// Surname returns the family name shown in the statistics. Names written in
// a CJK script put the one-character surname first with no space, so the
// first character is returned; any other name yields its first word.
func Surname(root *types.Member) string {
	words := strings.Fields(root.Name)
	if len(words) == 0 {
		return ""
	}
	r, size := utf8.DecodeRuneInString(words[0])
	if unicode.In(r, unicode.Han, unicode.Hangul, unicode.Hiragana, unicode.Katakana) {
		return words[0][:size]
	}
	return words[0]
}

// Stats writes the family surname with the member and generation counts.
func Stats(w io.Writer, root *types.Member) error {
	var b strings.Builder
	fmt.Fprintf(&b, "%s%s\n", styles.Label.Render("Family"), orDash(Surname(root)))
	fmt.Fprintf(&b, "%s%d\n", styles.Label.Render("Members"), store.CountMembers(root))
	fmt.Fprintf(&b, "%s%d\n", styles.Label.Render("Generations"), store.CountGenerations(root))
	_, err := io.WriteString(w, b.String())
	return err
}
