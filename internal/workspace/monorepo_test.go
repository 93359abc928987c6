package workspace

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetect_NoWorkspaceSystem(t *testing.T) {
	tmpDir := t.TempDir()
	writeFile(t, tmpDir, "package.json", `{"name": "single"}`)

	assert.Nil(t, Detect(newProbe(t, tmpDir)))
}

func TestDetect_Systems(t *testing.T) {
	tests := []struct {
		name     string
		files    map[string]string
		wantType MonorepoType
		want     []string
	}{
		{
			name:     "pnpm",
			files:    map[string]string{PnpmWorkspaceFile: "packages:\n  - 'packages/*'\n"},
			wantType: MonorepoPnpm,
			want:     []string{"packages/*"},
		},
		{
			name:     "npm workspaces array",
			files:    map[string]string{"package.json": `{"workspaces": ["apps/*", "packages/*"]}`},
			wantType: MonorepoNPM,
			want:     []string{"apps/*", "packages/*"},
		},
		{
			name: "yarn workspaces object",
			files: map[string]string{
				"package.json": `{"workspaces": {"packages": ["libs/*"]}}`,
				"yarn.lock":    "",
			},
			wantType: MonorepoYarn,
			want:     []string{"libs/*"},
		},
		{
			name: "bun workspaces",
			files: map[string]string{
				"package.json": `{"workspaces": ["pkgs/*"]}`,
				"bun.lockb":    "",
			},
			wantType: MonorepoBun,
			want:     []string{"pkgs/*"},
		},
		{
			name:     "lerna defaults",
			files:    map[string]string{"lerna.json": `{"version": "1.0.0"}`},
			wantType: MonorepoLerna,
			want:     []string{"packages/*"},
		},
		{
			name:     "lerna packages",
			files:    map[string]string{"lerna.json": `{"packages": ["modules/*"]}`},
			wantType: MonorepoLerna,
			want:     []string{"modules/*"},
		},
		{
			name:     "nx layout",
			files:    map[string]string{"nx.json": `{"workspaceLayout": {"appsDir": "projects", "libsDir": "shared"}}`},
			wantType: MonorepoNx,
			want:     []string{"projects/*", "shared/*"},
		},
		{
			name:     "turborepo",
			files:    map[string]string{"turbo.json": `{"pipeline": {}}`},
			wantType: MonorepoTurborepo,
			want:     []string{"apps/*", "packages/*"},
		},
		{
			name: "go work",
			files: map[string]string{"go.work": `go 1.22

use (
	./api // service
	./tools
	.
)

use ./cli
`},
			wantType: MonorepoGoWork,
			want:     []string{"api", "tools", "cli"},
		},
		{
			name: "cargo workspace",
			files: map[string]string{"Cargo.toml": `[workspace]
members = ["crates/*", "cli"]
exclude = ["crates/old"]
`},
			wantType: MonorepoCargo,
			want:     []string{"crates/*", "cli", "!crates/old"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tmpDir := t.TempDir()
			for rel, content := range tt.files {
				writeFile(t, tmpDir, rel, content)
			}
			c := newProbe(t, tmpDir)

			info := Detect(c)
			require.NotNil(t, info)
			assert.Equal(t, tt.wantType, info.Type)
			assert.Equal(t, tt.want, info.Workspaces)
			assert.Equal(t, c.Root(), info.RootPath)
		})
	}
}

func TestDetect_CargoWithoutWorkspace(t *testing.T) {
	tmpDir := t.TempDir()
	writeFile(t, tmpDir, "Cargo.toml", "[package]\nname = \"solo\"\n")
	assert.Nil(t, Detect(newProbe(t, tmpDir)))

	writeFile(t, tmpDir, "Cargo.toml", "[workspace\nbroken")
	assert.Nil(t, Detect(newProbe(t, tmpDir)))
}

func TestDetect_EmptyPackageWorkspaces(t *testing.T) {
	for _, field := range []string{`null`, `[]`, `{"packages": []}`} {
		t.Run(field, func(t *testing.T) {
			tmpDir := t.TempDir()
			writeFile(t, tmpDir, "package.json", `{"name": "single", "workspaces": `+field+`}`)
			assert.Nil(t, Detect(newProbe(t, tmpDir)))
		})
	}
}

func TestParseGoWorkUses_MixedFormsKeepOrder(t *testing.T) {
	content := `go 1.22

use ./tools

use (
	./svc/billing // payments
	"./svc/api"
)

use ./cmd
use (./lib/a ./lib/b)
`
	assert.Equal(t, []string{"tools", "svc/billing", "svc/api", "cmd", "lib/a", "lib/b"}, parseGoWorkUses(content))
}

func TestDetect_OrderStable(t *testing.T) {
	tmpDir := t.TempDir()
	writeFile(t, tmpDir, PnpmWorkspaceFile, "packages:\n  - 'packages/*'\n")
	writeFile(t, tmpDir, "package.json", `{"workspaces": ["apps/*"]}`)
	writeFile(t, tmpDir, "turbo.json", `{}`)
	writeFile(t, tmpDir, "go.work", "use ./svc\n")

	for i := 0; i < 20; i++ {
		info := Detect(newProbe(t, tmpDir))
		require.NotNil(t, info)
		assert.Equal(t, MonorepoPnpm, info.Type)
	}
}

func TestDetect_ManifestFieldBeatsOrchestrator(t *testing.T) {
	tmpDir := t.TempDir()
	writeFile(t, tmpDir, "package.json", `{"workspaces": ["apps/*"]}`)
	writeFile(t, tmpDir, "turbo.json", `{}`)

	info := Detect(newProbe(t, tmpDir))
	require.NotNil(t, info)
	assert.Equal(t, MonorepoNPM, info.Type)
	assert.Equal(t, []string{"apps/*"}, info.Workspaces)
}

func TestExpand(t *testing.T) {
	tmpDir := t.TempDir()
	mkdirs(t, tmpDir,
		"packages/core", "packages/shared", "packages/legacy", "packages/.cache",
		"apps/web", "apps/api", "apps/node_modules",
		"services/billing/src", "tools")
	writeFile(t, tmpDir, "packages/README.md", "not a dir")
	c := newProbe(t, tmpDir)

	tests := []struct {
		name     string
		patterns []string
		want     []string
	}{
		{
			name:     "trailing star lists children",
			patterns: []string{"packages/*"},
			want:     []string{"packages/core", "packages/legacy", "packages/shared"},
		},
		{
			name:     "negation removes matches",
			patterns: []string{"packages/*", "!packages/legacy"},
			want:     []string{"packages/core", "packages/shared"},
		},
		{
			name:     "pattern order preserved and deduplicated",
			patterns: []string{"apps/*", "packages/core", "packages/*"},
			want:     []string{"apps/api", "apps/web", "packages/core", "packages/legacy", "packages/shared"},
		},
		{
			name:     "plain directory",
			patterns: []string{"tools", "missing"},
			want:     []string{"tools"},
		},
		{
			name:     "brace glob",
			patterns: []string{"apps/{web,api}"},
			want:     []string{"apps/api", "apps/web"},
		},
		{
			name:     "recursive glob",
			patterns: []string{"services/**/src"},
			want:     []string{"services/billing/src"},
		},
		{
			name:     "missing base",
			patterns: []string{"nothing/*"},
			want:     nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Expand(c, tt.patterns))
		})
	}
}
