package project

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/skelly-dev/unitymap/internal/ctxlog"
	"github.com/skelly-dev/unitymap/internal/ledger"
	"github.com/skelly-dev/unitymap/internal/output"
)

const mainScene = `%YAML 1.1
%TAG !u! tag:unity3d.com,2011:
--- !u!1 &100
GameObject:
  m_Name: PlayerController
--- !u!4 &101
Transform:
  m_GameObject: {fileID: 100}
  m_Father: {fileID: 0}
  m_Children:
  - {fileID: 201}
--- !u!1 &200
GameObject:
  m_Name: Camera
--- !u!4 &201
Transform:
  m_GameObject: {fileID: 200}
  m_Father: {fileID: 101}
  m_Children: []
--- !u!114 &300
MonoBehaviour:
  m_GameObject: {fileID: 100}
  m_Script: {fileID: 11500000, guid: aaaa1111, type: 3}
`

func mustWriteFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func writeScript(t *testing.T, root, rel, guid, source string) {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(rel))
	mustWriteFile(t, path, source)
	if guid != "" {
		mustWriteFile(t, path+".meta", "fileFormatVersion: 2\nguid: "+guid+"\n")
	}
}

func sampleProject(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	mustWriteFile(t, filepath.Join(root, "Assets", "Scenes", "Main.unity"), mainScene)
	writeScript(t, root, "Assets/Scripts/Player.cs", "aaaa1111",
		"using UnityEngine;\npublic class Player : MonoBehaviour {\n    public Weapon weapon;\n}\n")
	writeScript(t, root, "Assets/Scripts/Weapon.cs", "bbbb2222",
		"[System.Serializable]\npublic class Weapon {\n    public int damage;\n}\n")
	writeScript(t, root, "Assets/Scripts/Orphan.cs", "cccc3333",
		"public class Orphan {\n}\n")
	return root
}

func TestScanWritesDumpAndUnusedScripts(t *testing.T) {
	root := sampleProject(t)
	out := t.TempDir()

	result, err := Scan(context.Background(), Options{ProjectDir: root, OutputDir: out, Workers: 2})
	require.NoError(t, err)
	require.Len(t, result.Scenes, 1)
	require.Equal(t, "Assets/Scenes/Main.unity", result.Scenes[0].Path)
	require.Equal(t, 2, result.Scenes[0].GameObjects)
	require.Equal(t, 1, result.Scenes[0].Roots)
	require.Equal(t, 3, result.Scripts)
	require.Equal(t, 3, result.Registered)
	require.Equal(t, 1, result.Referenced)
	require.Equal(t, 1, result.References)

	dump, err := os.ReadFile(filepath.Join(out, "Main.unity.dump"))
	require.NoError(t, err)
	require.Equal(t, "Player Controller\n-->Camera\n", string(dump))

	require.Equal(t, []ledger.Entry{{GUID: "cccc3333", RelativePath: "Assets/Scripts/Orphan.cs"}}, result.Unused)
	csv, err := os.ReadFile(filepath.Join(out, output.UnusedScriptsFile))
	require.NoError(t, err)
	require.Equal(t, "Relative Path,GUID\nAssets/Scripts/Orphan.cs,cccc3333\n", string(csv))
}

func TestScanLogsSerializedFieldReferences(t *testing.T) {
	root := sampleProject(t)
	var logs bytes.Buffer
	ctx := ctxlog.WithLogger(context.Background(), ctxlog.New("debug", "text", &logs))

	_, err := Scan(ctx, Options{ProjectDir: root, OutputDir: t.TempDir()})
	require.NoError(t, err)
	require.Contains(t, logs.String(), "serialized field reference")
	require.Contains(t, logs.String(), "from=Assets/Scripts/Player.cs")
	require.Contains(t, logs.String(), "to=Assets/Scripts/Weapon.cs")
}

func TestScanMissingProject(t *testing.T) {
	_, err := Scan(context.Background(), Options{ProjectDir: filepath.Join(t.TempDir(), "missing"), OutputDir: t.TempDir()})
	require.ErrorIs(t, err, ErrProjectNotFound)
}

func TestScanDuplicateGUIDAborts(t *testing.T) {
	root := sampleProject(t)
	writeScript(t, root, "Assets/Scripts/Copy.cs", "aaaa1111", "public class Copy {}\n")
	out := t.TempDir()

	_, err := Scan(context.Background(), Options{ProjectDir: root, OutputDir: out, Workers: 1})
	var dup *ledger.DuplicateGUIDError
	require.True(t, errors.As(err, &dup))
	require.Equal(t, "aaaa1111", dup.GUID)

	_, statErr := os.Stat(filepath.Join(out, "Main.unity.dump"))
	require.True(t, os.IsNotExist(statErr))
}

func TestScanMissingMetaIsWarning(t *testing.T) {
	root := sampleProject(t)
	writeScript(t, root, "Assets/Scripts/NoMeta.cs", "", "public class NoMeta {}\n")

	result, err := Scan(context.Background(), Options{ProjectDir: root, OutputDir: t.TempDir()})
	require.NoError(t, err)
	require.Equal(t, 4, result.Scripts)
	require.Equal(t, 3, result.Registered)

	found := false
	for _, issue := range result.Issues {
		if issue.File == "Assets/Scripts/NoMeta.cs.meta" && issue.Severity == "warning" {
			found = true
		}
	}
	require.True(t, found, "expected warning for missing meta, got %+v", result.Issues)
}

func TestScanMalformedSceneDoesNotStopOthers(t *testing.T) {
	root := sampleProject(t)
	mustWriteFile(t, filepath.Join(root, "Assets", "Broken.unity"),
		"--- !u!1 &5\nGameObject:\n  m_Name: [unclosed\n--- !u!1 &6\nGameObject:\n  m_Name: Survivor\n")
	out := t.TempDir()

	result, err := Scan(context.Background(), Options{ProjectDir: root, OutputDir: out, Workers: 4})
	require.NoError(t, err)
	require.Len(t, result.Scenes, 2)
	require.Zero(t, result.FailedScenes())

	broken := result.Scenes[0]
	require.Equal(t, "Assets/Broken.unity", broken.Path)
	require.NotEmpty(t, broken.Issues)

	dump, err := os.ReadFile(filepath.Join(out, "Main.unity.dump"))
	require.NoError(t, err)
	require.Equal(t, "Player Controller\n-->Camera\n", string(dump))
}

func TestScanIgnoresLibraryFolder(t *testing.T) {
	root := sampleProject(t)
	mustWriteFile(t, filepath.Join(root, "Library", "Cache.unity"), mainScene)

	inv, err := Discover(root, nil)
	require.NoError(t, err)
	require.Equal(t, []string{"Assets/Scenes/Main.unity"}, inv.Scenes)
	require.Equal(t, []string{
		"Assets/Scripts/Orphan.cs",
		"Assets/Scripts/Player.cs",
		"Assets/Scripts/Weapon.cs",
	}, inv.Scripts)
}

func TestScanQualifiesCollidingDumpNames(t *testing.T) {
	root := sampleProject(t)
	mustWriteFile(t, filepath.Join(root, "Assets", "Levels", "Main.unity"), mainScene)
	out := t.TempDir()

	result, err := Scan(context.Background(), Options{ProjectDir: root, OutputDir: out})
	require.NoError(t, err)
	require.Len(t, result.Scenes, 2)
	require.FileExists(t, filepath.Join(out, "Assets_Levels_Main.unity.dump"))
	require.FileExists(t, filepath.Join(out, "Assets_Scenes_Main.unity.dump"))
	require.NoFileExists(t, filepath.Join(out, "Main.unity.dump"))
}
