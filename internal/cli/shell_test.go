package cli

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/familytree/internal/biography"
	"github.com/mesh-intelligence/familytree/pkg/types"
)

func script(lines ...string) string {
	return strings.Join(lines, "\n") + "\n"
}

func runShell(t *testing.T, a *app, lines ...string) result {
	t.Helper()
	clearEnv(t)
	r := runCLI(t, a, t.TempDir(), script(lines...), "shell")
	require.Equal(t, exitSuccess, r.code, r.stderr)
	return r
}

func TestShellAddChildToSelection(t *testing.T) {
	r := runShell(t, testApp(nil),
		"select child-2",
		`add-child --name "Zhao Lei" --gender male --birth 2001`,
		"show",
		"exit",
	)

	assert.Contains(t, r.stdout, "Li Li\n")
	assert.Contains(t, r.stdout, "Added Zhao Lei [")
	assert.Contains(t, r.stdout, "└── Li Li (1975-) ♀ [child-2] ◀")
	assert.Contains(t, r.stdout, "    └── Zhao Lei (2001-) ♂ [")
	assert.Empty(t, r.stderr)
}

func TestShellAddSibling(t *testing.T) {
	r := runShell(t, testApp(nil),
		"add-sibling grandchild-1 --name 'Li Qiang' --gender male --birth 2003",
		"stats",
	)
	assert.Contains(t, r.stdout, "Added Li Qiang [")
	assert.Contains(t, r.stdout, "as a sibling of Li Hua")
	assert.Regexp(t, `Members\s+5`, r.stdout)
}

func TestShellRootSiblingRefused(t *testing.T) {
	r := runShell(t, testApp(nil),
		"add-sibling root-1 --name Nobody",
		"stats",
	)
	assert.Contains(t, r.stderr, "error: the root member cannot have a sibling")
	assert.Regexp(t, `Members\s+4`, r.stdout)
}

func TestShellErrors(t *testing.T) {
	tests := []struct {
		name string
		line string
		want string
	}{
		{"no selection", "add-child --name X", errNoSelection.Error()},
		{"unknown member", "select nobody", types.ErrMemberNotFound.Error()},
		{"invalid gender", "add-child root-1 --name X --gender robot", types.ErrInvalidFields.Error()},
		{"blank name", "add-child root-1 --name '  '", types.ErrInvalidFields.Error()},
		{"bad photo", "edit child-1 --photo ftp://x", types.ErrInvalidFields.Error()},
		{"unknown command", "grow", "unknown command"},
		{"unbalanced quote", `add-child --name "Li`, "parse command"},
		{"too many args", "sort root-1 child-1", "accepts at most 1 arg"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := runShell(t, testApp(nil), tt.line)
			assert.Contains(t, r.stderr, tt.want)
		})
	}
}

func TestShellEdit(t *testing.T) {
	r := runShell(t, testApp(nil),
		"select child-1",
		"edit --occupation 'Chief engineer' --death 2040 --bio 'Built bridges.'",
		"select child-1",
		"show",
	)
	assert.Contains(t, r.stdout, "Updated Li Ming [child-1]")
	assert.Contains(t, r.stdout, "Chief engineer")
	assert.Contains(t, r.stdout, "Built bridges.")
	assert.Contains(t, r.stdout, "├── Li Ming (1970-2040) ♂ [child-1] ◀")
	assert.Contains(t, r.stdout, "│   └── Li Hua (1998-) ♂ [grandchild-1]", "children survive an edit")
}

func TestShellEditPhotoFile(t *testing.T) {
	photo := writeFile(t, "li-ming.png", pngHeader)
	r := runShell(t, testApp(nil),
		"edit child-1 --photo-file '"+photo+"'",
		"select child-1",
		"edit child-1 --photo-file '"+photo+".missing'",
	)
	assert.Contains(t, r.stdout, "Updated Li Ming [child-1]")
	assert.Contains(t, r.stdout, "data:image/png;base64,")
	assert.Contains(t, r.stderr, "read photo")
}

func TestShellDeleteNeedsConfirmation(t *testing.T) {
	r := runShell(t, testApp(nil),
		"delete child-1",
		"stats",
		"delete child-1 --yes",
		"stats",
		"show",
	)
	assert.Contains(t, r.stderr, errConfirmRequired.Error())
	assert.Regexp(t, `Members\s+4`, r.stdout)
	assert.Contains(t, r.stdout, "Deleted Li Ming [child-1] and 1 descendants")
	assert.Regexp(t, `Members\s+2`, r.stdout)
	assert.NotContains(t, r.stdout, "grandchild-1]")
}

func TestShellDeleteSelectedClearsSelection(t *testing.T) {
	r := runShell(t, testApp(nil),
		"select grandchild-1",
		"delete -y",
		"edit --name X",
	)
	assert.Contains(t, r.stdout, "Deleted Li Hua [grandchild-1]")
	assert.Contains(t, r.stderr, errNoSelection.Error())
}

func TestShellDeleteRootResets(t *testing.T) {
	r := runShell(t, testApp(nil),
		"delete root-1 --yes",
		"stats",
	)
	assert.Contains(t, r.stdout, "Started a new tree with Ancestor [")
	assert.Regexp(t, `Members\s+1`, r.stdout)
	assert.Regexp(t, `Generations\s+1`, r.stdout)
}

func TestShellReset(t *testing.T) {
	r := runShell(t, testApp(nil),
		"reset --name 'Zhou Enlai' --yes",
		"show",
	)
	assert.Contains(t, r.stdout, "Started a new tree with Zhou Enlai [")
	assert.Contains(t, r.stdout, "Zhou Enlai (")
	assert.NotContains(t, r.stdout, "Li Jianguo")
}

func TestShellSort(t *testing.T) {
	r := runShell(t, testApp(nil),
		"add-child root-1 --name 'Li Gang' --birth 1968",
		"sort root-1",
		"show",
	)
	assert.Contains(t, r.stdout, "Sorted the children of Li Jianguo by birth year")
	out := r.stdout[strings.LastIndex(r.stdout, "Li Jianguo (1945-)"):]
	gang := strings.Index(out, "Li Gang")
	ming := strings.Index(out, "Li Ming")
	li := strings.Index(out, "Li Li")
	assert.True(t, gang < ming && ming < li, "children in birth order:\n%s", out)
}

func TestShellBiography(t *testing.T) {
	r := runShell(t, testApp(storyGenerator()),
		"bio child-2 --wait",
	)
	assert.Contains(t, r.stdout, "Generating a biography for Li Li [child-2]")
	assert.Contains(t, r.stdout, "Biography ready for [child-2]")
	assert.Contains(t, r.stdout, "The story of Li Li.")
}

func TestShellBiographyAll(t *testing.T) {
	t.Setenv("FAMILYTREE_BIOGRAPHY_REQUESTS_PER_MINUTE", "0")
	r := runShell(t, testApp(storyGenerator()),
		"bio --all",
		"select grandchild-1",
		"select root-1",
	)
	assert.Contains(t, r.stdout, "Generating 4 biographies")
	assert.Contains(t, r.stdout, "The story of Li Hua.")
	assert.Contains(t, r.stdout, "The story of Li Jianguo.")
}

func TestShellBiographyFailure(t *testing.T) {
	failing := biography.GeneratorFunc(func(context.Context, biography.Request) biography.Result {
		return biography.Failed(biography.PlaceholderNoAPIKey, nil)
	})
	r := runShell(t, testApp(failing),
		"bio root-1",
		"wait",
		"select root-1",
	)
	assert.Contains(t, r.stdout, "No biographies pending")
	assert.Contains(t, r.stderr, "Biography for [root-1] failed")
	assert.Contains(t, r.stdout, biography.PlaceholderNoAPIKey)
}

func TestShellExitStopsReading(t *testing.T) {
	r := runShell(t, testApp(nil),
		"quit",
		"add-child root-1 --name Ghost",
	)
	assert.Empty(t, r.stdout)
	assert.Empty(t, r.stderr)
}

func TestShellEmptyStart(t *testing.T) {
	clearEnv(t)
	r := runCLI(t, testApp(nil), t.TempDir(), script("stats"), "shell", "--empty")
	require.Equal(t, exitSuccess, r.code, r.stderr)
	assert.Regexp(t, `Members\s+1`, r.stdout)
	assert.Regexp(t, `Family\s+Ancestor`, r.stdout)
}

func TestShellInteractiveForms(t *testing.T) {
	a := testApp(nil)
	a.interactive = true
	p := &fakePrompter{
		form: func(f *types.MemberFields) {
			f.Name = "Chen Jing"
			f.Gender = types.GenderFemale
			f.BirthDate = "2005"
		},
		confirm: false,
	}
	a.prompter = p

	r := runShell(t, a,
		"add-child child-2",
		"delete child-1",
		"stats",
	)
	assert.Contains(t, r.stdout, shellPrompt)
	assert.Contains(t, r.stdout, "Added Chen Jing [")
	assert.Contains(t, r.stdout, "Nothing deleted")
	assert.Regexp(t, `Members\s+5`, r.stdout)
	assert.Equal(t, []string{"New child of Li Li", "Delete Li Ming?"}, p.asked)
}

func TestShellInteractiveEditPrefillsForm(t *testing.T) {
	a := testApp(nil)
	a.interactive = true
	var seen types.MemberFields
	a.prompter = &fakePrompter{form: func(f *types.MemberFields) {
		seen = *f
		f.Occupation = "Retired"
	}}

	r := runShell(t, a,
		"edit root-1",
		"select root-1",
	)
	assert.Equal(t, "Li Jianguo", seen.Name)
	assert.Equal(t, "Textile mill director", seen.Occupation)
	assert.Contains(t, r.stdout, "Retired")
}

func TestShellInteractiveFlagsSkipForm(t *testing.T) {
	a := testApp(nil)
	a.interactive = true
	p := &fakePrompter{confirm: true}
	a.prompter = p

	r := runShell(t, a,
		"add-child root-1 --name 'Li Gang'",
		"delete child-2",
	)
	assert.Contains(t, r.stdout, "Added Li Gang [")
	assert.Contains(t, r.stdout, "Deleted Li Li [child-2] and 0 descendants")
	assert.Equal(t, []string{"Delete Li Li?"}, p.asked)
}
