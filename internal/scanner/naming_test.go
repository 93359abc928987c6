package scanner

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyNaming(t *testing.T) {
	tests := []struct {
		name  string
		names []string
		want  NamingConvention
	}{
		{"empty", nil, NamingMixed},
		{"kebab", []string{"user-profile.tsx", "nav-bar.tsx", "api-client.ts"}, NamingKebabCase},
		{"snake", []string{"user_service.py", "db_session.py", "main_app.py"}, NamingSnakeCase},
		{"pascal", []string{"UserCard.tsx", "NavBar.tsx", "App.tsx"}, NamingPascalCase},
		{"camel", []string{"useAuth.ts", "apiClient.ts", "index.ts"}, NamingCamelCase},
		{"paths use base name", []string{"src/components/UserCard.tsx", `src\pages\HomePage.tsx`}, NamingPascalCase},
		{"multi-dot extension", []string{"user-card.test.tsx", "nav-bar.stories.tsx"}, NamingKebabCase},
		{
			name:  "sixty percent wins",
			names: []string{"a-b.ts", "c-d.ts", "e-f.ts", "Foo.ts", "g_h.ts"},
			want:  NamingKebabCase,
		},
		{
			name:  "below threshold is mixed",
			names: []string{"a-b.ts", "c-d.ts", "Foo.ts", "Bar.ts", "g_h.ts"},
			want:  NamingMixed,
		},
		{
			name:  "even split is mixed",
			names: []string{"a-b.ts", "c-d.ts", "e_f.ts", "g_h.ts"},
			want:  NamingMixed,
		},
		{
			name:  "unclassifiable names count against the threshold",
			names: []string{"Foo.ts", "__init__.py", "$weird.ts"},
			want:  NamingMixed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ClassifyNaming(tt.names); got != tt.want {
				t.Errorf("ClassifyNaming(%v) = %v, want %v", tt.names, got, tt.want)
			}
		})
	}
}

func TestDetectNaming(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{
		"src/user-card.tsx":            "",
		"src/nav-bar.tsx":              "",
		"src/api-client.ts":            "",
		"src/user-card.test.tsx":       "",
		"src/README.md":                "",
		"src/feature-flags/index.ts":   "",
		"src/node_modules/LeftPad.js":  "",
		"src/node_modules/RightPad.js": "",
	})
	got := DetectNaming(openProbe(t, dir), "src", 500, nil)

	// index.ts is a single lowercase word and classifies as camelCase:
	// 3 of 4 sampled files are kebab-case.
	assert.Equal(t, NamingKebabCase, got.Files)
	assert.Equal(t, NamingKebabCase, got.Directories)
}

func TestDetectNaming_SampleCap(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{
		"a-one.ts":   "",
		"b-two.ts":   "",
		"cThree.ts":  "",
		"dFour.ts":   "",
		"eFive.ts":   "",
		"f_six.ts":   "",
		"g_seven.ts": "",
	})

	// Walk order is lexical, so a cap of two samples only the kebab files.
	got := DetectNaming(openProbe(t, dir), ".", 2, nil)
	assert.Equal(t, NamingKebabCase, got.Files)
}

func TestDetectNaming_SkipsHiddenAndExcludedDirs(t *testing.T) {
	snake := []string{"a_one.ts", "b_two.ts", "c_three.ts", "d_four.ts", "e_five.ts", "f_six.ts"}
	for _, sub := range []string{"generated", ".cache"} {
		t.Run(sub, func(t *testing.T) {
			dir := t.TempDir()
			files := map[string]string{
				"src/fooBar.ts": "",
				"src/bazQux.ts": "",
			}
			for _, name := range snake {
				files["src/"+sub+"/"+name] = ""
			}
			writeFiles(t, dir, files)

			got := DetectNaming(openProbe(t, dir), "src", 500, []string{"generated"})
			assert.Equal(t, NamingCamelCase, got.Files)
		})
	}
}
