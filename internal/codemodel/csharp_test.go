package codemodel

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

const playerSource = `using System;
using System.Collections.Generic;
using UnityEngine;

namespace Game
{
    public class Player : MonoBehaviour
    {
        public Weapon weapon;
        [SerializeField] private Armor armor;
        private Secret secret;
        public static Shared shared;
        [NonSerialized] public Cache cache;
        public List<Item> items;
        public int health = 10;

        public class Stats
        {
            public Buff buff;
        }

        void Update() {}
    }
}
`

func findDeclaration(t *testing.T, file *FileDeclarations, name string) Declaration {
	t.Helper()
	for _, decl := range file.Declarations {
		if decl.Name == name {
			return decl
		}
	}
	require.Failf(t, "declaration not found", "%s in %#v", name, file.Declarations)
	return Declaration{}
}

func serializedFields(decl Declaration) map[string][]string {
	out := make(map[string][]string)
	for _, field := range decl.Fields {
		if field.Serialized {
			out[field.Name] = field.Types
		}
	}
	return out
}

func TestCSharpParserExtractsSerializedFields(t *testing.T) {
	file, err := NewCSharpParser().Parse("Player.cs", []byte(playerSource))
	require.NoError(t, err)

	player := findDeclaration(t, file, "Player")
	require.Equal(t, DeclarationClass, player.Kind)
	require.Equal(t, "Player.cs", player.File)

	got := serializedFields(player)
	require.ElementsMatch(t, []string{"weapon", "armor", "items", "health"}, keys(got))
	require.Equal(t, []string{"Weapon"}, got["weapon"])
	require.Equal(t, []string{"Armor"}, got["armor"])
	require.Equal(t, []string{"List", "Item"}, got["items"])
	require.Empty(t, got["health"])

	stats := findDeclaration(t, file, "Stats")
	require.Contains(t, serializedFields(stats), "buff")
	require.NotContains(t, got, "buff")
}

func TestModelReferencedClosure(t *testing.T) {
	root := t.TempDir()
	files := map[string]string{
		"Assets/Player.cs": `public class Player { public Weapon weapon; private Unused hidden; }`,
		"Assets/Weapon.cs": `public class Weapon { [UnityEngine.SerializeField] private Ammo ammo; }`,
		"Assets/Ammo.cs":   `public class Ammo { public Player owner; }`,
		"Assets/Unused.cs": `public class Unused { public Weapon weapon; }`,
	}
	paths := make([]string, 0, len(files))
	for rel, src := range files {
		mustWriteFile(t, filepath.Join(root, rel), src)
		paths = append(paths, rel)
	}

	model := NewDefaultRegistry().BuildModel(root, paths)
	require.Empty(t, model.Issues)

	require.Equal(t,
		[]string{"Assets/Ammo.cs", "Assets/Player.cs", "Assets/Weapon.cs"},
		model.Referenced([]string{"Assets/Player.cs"}))
	require.Empty(t, model.Referenced(nil))
}

func TestModelReferencedReachesEverySameNamedType(t *testing.T) {
	model := NewModel([]FileDeclarations{
		{Path: "A.cs", Declarations: []Declaration{{Name: "A", File: "A.cs", Fields: []Field{
			{Name: "shared", Types: []string{"Shared"}, Serialized: true},
		}}}},
		{Path: "One/Shared.cs", Declarations: []Declaration{{Name: "Shared", File: "One/Shared.cs"}}},
		{Path: "Two/Shared.cs", Declarations: []Declaration{{Name: "Shared", File: "Two/Shared.cs"}}},
	})

	require.Len(t, model.Declarations("Shared"), 2)
	require.Empty(t, model.Declarations("Missing"))
	require.Equal(t, []string{"A.cs", "One/Shared.cs", "Two/Shared.cs"}, model.Referenced([]string{"A.cs"}))
}

func TestModelReferencesRelation(t *testing.T) {
	model := NewModel([]FileDeclarations{
		{
			Path: "A.cs",
			Declarations: []Declaration{
				{Name: "A", File: "A.cs", Fields: []Field{
					{Name: "b", Types: []string{"B"}, Serialized: true},
					{Name: "self", Types: []string{"A"}, Serialized: true},
					{Name: "hidden", Types: []string{"B"}, Serialized: false},
					{Name: "external", Types: []string{"GameObject"}, Serialized: true},
				}},
			},
		},
		{Path: "B.cs", Declarations: []Declaration{{Name: "B", File: "B.cs"}}},
	})

	refs := model.References()
	require.Len(t, refs, 1)
	require.Equal(t, "A", refs[0].From.Name)
	require.Equal(t, "B", refs[0].To.Name)
	require.Equal(t, "b", refs[0].Field)
}

func TestBuildModelReportsUnreadableFiles(t *testing.T) {
	model := NewDefaultRegistry().BuildModel(t.TempDir(), []string{"Missing.cs", "notes.txt"})
	require.Empty(t, model.Files)
	require.Len(t, model.Issues, 1)
	require.Equal(t, "Missing.cs", model.Issues[0].File)
}

func keys(m map[string][]string) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}

func mustWriteFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}
