package ledger

import (
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMarkUsedIsIdempotent(t *testing.T) {
	l := New()
	l.MarkUsed("G1")
	l.MarkUsed("G1")

	require.Equal(t, 1, l.Len())
	entry, ok := l.Entry("G1")
	require.True(t, ok)
	require.True(t, entry.Used)
	require.Empty(t, entry.RelativePath)
}

func TestMarkUsedIgnoresEmptyGUID(t *testing.T) {
	l := New()
	l.MarkUsed("  ")
	require.Zero(t, l.Len())
}

func TestRegisterKnownFillsPathOfSightedGUID(t *testing.T) {
	l := New()
	l.MarkUsed("G1")
	require.NoError(t, l.RegisterKnown("G1", "Assets/Scripts/Player.cs"))

	entry, _ := l.Entry("G1")
	require.Equal(t, "Assets/Scripts/Player.cs", entry.RelativePath)
	require.True(t, entry.Used)
}

func TestRegisterKnownDuplicateGUID(t *testing.T) {
	l := New()
	require.NoError(t, l.RegisterKnown("G2", "Scripts/Foo.cs"))
	require.NoError(t, l.RegisterKnown("G2", "Scripts/Foo.cs"))

	err := l.RegisterKnown("G2", "Scripts/Bar.cs")
	var dup *DuplicateGUIDError
	require.True(t, errors.As(err, &dup))
	require.Equal(t, "G2", dup.GUID)
	require.Equal(t, "Scripts/Foo.cs", dup.Existing)
	require.Equal(t, "Scripts/Bar.cs", dup.Incoming)
	require.Contains(t, err.Error(), "Scripts/Foo.cs")
	require.Contains(t, err.Error(), "Scripts/Bar.cs")
}

func TestRegisterKnownRejectsEmptyGUID(t *testing.T) {
	require.Error(t, New().RegisterKnown("", "Scripts/Foo.cs"))
}

func TestUnusedListsOnlyNeverUsedEntries(t *testing.T) {
	l := New()
	require.NoError(t, l.RegisterKnown("G1", "Assets/A.cs"))
	require.NoError(t, l.RegisterKnown("G2", "Assets/B.cs"))
	require.NoError(t, l.RegisterKnown("G3", "Assets/C.cs"))
	l.MarkUsed("G1")
	l.MarkUsed("G9")

	require.Equal(t, []Entry{
		{GUID: "G2", RelativePath: "Assets/B.cs"},
		{GUID: "G3", RelativePath: "Assets/C.cs"},
	}, l.Unused())
}

type staticProvider struct {
	gotUsed []string
	result  []string
}

func (p *staticProvider) Referenced(used []string) []string {
	p.gotUsed = used
	return p.result
}

func TestApplyReferencesMarksReferencedPaths(t *testing.T) {
	l := New()
	require.NoError(t, l.RegisterKnown("G1", "Assets/Player.cs"))
	require.NoError(t, l.RegisterKnown("G2", "Assets/Weapon.cs"))
	require.NoError(t, l.RegisterKnown("G3", "Assets/Unused.cs"))
	l.MarkUsed("G1")

	provider := &staticProvider{result: []string{"Assets/Player.cs", "Assets/Weapon.cs", "Assets/Missing.cs"}}
	require.Equal(t, 1, l.ApplyReferences(provider))
	require.Equal(t, []string{"Assets/Player.cs"}, provider.gotUsed)

	unused := l.Unused()
	require.Len(t, unused, 1)
	require.Equal(t, "G3", unused[0].GUID)
	require.Zero(t, l.ApplyReferences(nil))
}

func TestConcurrentMarkUsedNeverLosesWrites(t *testing.T) {
	l := New()
	const guids = 64
	for i := 0; i < guids; i++ {
		require.NoError(t, l.RegisterKnown(fmt.Sprintf("G%d", i), fmt.Sprintf("Assets/S%d.cs", i)))
	}

	var wg sync.WaitGroup
	for worker := 0; worker < 8; worker++ {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()
			for i := worker % 2; i < guids; i += 2 {
				l.MarkUsed(fmt.Sprintf("G%d", i))
				l.MarkUsed(fmt.Sprintf("extra-%d-%d", worker, i))
			}
		}(worker)
	}
	wg.Wait()

	require.Empty(t, l.Unused())
	require.Equal(t, guids+8*guids/2, l.Len())
}
