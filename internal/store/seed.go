package store

import "github.com/mesh-intelligence/familytree/pkg/types"

// Example returns the demonstration family a new editor starts with: a
// founder, two children, and one grandchild. Each call returns a fresh tree.
func Example() *types.Member {
	return &types.Member{
		ID:         "root-1",
		Name:       "Li Jianguo",
		Gender:     types.GenderMale,
		BirthDate:  "1945",
		BirthPlace: "Suzhou, Jiangsu",
		Occupation: "Textile mill director",
		Partner:    "Wang Xiuying",
		PhotoURL:   "https://picsum.photos/200/200?random=1",
		Children: []*types.Member{
			{
				ID:         "child-1",
				Name:       "Li Ming",
				Gender:     types.GenderMale,
				BirthDate:  "1970",
				BirthPlace: "Shanghai",
				Occupation: "Engineer",
				Partner:    "Zhang Min",
				PhotoURL:   "https://picsum.photos/200/200?random=2",
				Children: []*types.Member{
					{
						ID:         "grandchild-1",
						Name:       "Li Hua",
						Gender:     types.GenderMale,
						BirthDate:  "1998",
						BirthPlace: "Shanghai",
						Occupation: "Student",
						PhotoURL:   "https://picsum.photos/200/200?random=4",
						Children:   []*types.Member{},
					},
				},
			},
			{
				ID:         "child-2",
				Name:       "Li Li",
				Gender:     types.GenderFemale,
				BirthDate:  "1975",
				BirthPlace: "Shanghai",
				Occupation: "Doctor",
				Partner:    "Zhao Qiang",
				PhotoURL:   "https://picsum.photos/200/200?random=3",
				Children:   []*types.Member{},
			},
		},
	}
}

// Initial returns the tree a process starts with for the given seed name:
// the example family for types.SeedExample, otherwise a fresh single-member
// tree whose root is called rootName.
func Initial(seed, rootName string) *types.Member {
	if seed == types.SeedExample {
		return Example()
	}
	return ResetTree(types.MemberFields{Name: rootName})
}
