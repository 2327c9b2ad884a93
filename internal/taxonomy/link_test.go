package taxonomy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveParents_Basic(t *testing.T) {
	nodes := []Node{
		{ID: "1", Name: "Carnivora"},
		{ID: "2", Name: "Felidae", ParentName: "Carnivora"},
		{ID: "3", Name: "Lion", ParentName: "felidae"},
	}
	links, skips := ResolveParents(nodes)
	assert.Empty(t, skips)
	require.Len(t, links, 2)
	assert.Equal(t, Link{ChildID: "2", ParentID: "1"}, links[0])
	assert.Equal(t, Link{ChildID: "3", ParentID: "2"}, links[1])
}

func TestResolveParents_AlreadyLinkedSkipped(t *testing.T) {
	parent := "1"
	nodes := []Node{
		{ID: "1", Name: "Carnivora"},
		{ID: "2", Name: "Felidae", ParentName: "Carnivora", ParentID: &parent},
	}
	links, skips := ResolveParents(nodes)
	assert.Empty(t, links)
	assert.Empty(t, skips)
}

func TestResolveParents_NoMatch(t *testing.T) {
	nodes := []Node{
		{ID: "2", Name: "Felidae", ParentName: "Chordata"},
	}
	links, skips := ResolveParents(nodes)
	assert.Empty(t, links)
	require.Len(t, skips, 1)
	assert.Equal(t, Skip{ChildID: "2", ParentName: "Chordata", Reason: SkipNoMatch}, skips[0])
}

func TestResolveParents_Ambiguous(t *testing.T) {
	nodes := []Node{
		{ID: "1", Name: "Puma"},
		{ID: "2", Name: "puma"},
		{ID: "3", Name: "Cougar", ParentName: "Puma"},
	}
	links, skips := ResolveParents(nodes)
	assert.Empty(t, links)
	require.Len(t, skips, 1)
	assert.Equal(t, SkipAmbiguous, skips[0].Reason)
}

func TestResolveParents_SelfReference(t *testing.T) {
	nodes := []Node{
		{ID: "1", Name: "Puma", ParentName: "Puma"},
	}
	links, skips := ResolveParents(nodes)
	assert.Empty(t, links)
	require.Len(t, skips, 1)
	assert.Equal(t, SkipSelf, skips[0].Reason)
}
