package bfs_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/wfpad/bfs"
	"github.com/katalvlaran/wfpad/core"
)

func stateGraph(t *testing.T, edges ...[2]string) *core.Graph {
	t.Helper()
	g := core.NewGraph(core.WithDirected(true), core.WithLoops(), core.WithMultiEdges())
	for _, e := range edges {
		_, err := g.AddEdge(e[0], e[1])
		require.NoError(t, err)
	}

	return g
}

func TestBFS_Errors(t *testing.T) {
	t.Parallel()

	_, err := bfs.BFS(nil, "start")
	require.ErrorIs(t, err, bfs.ErrGraphNil)

	g := core.NewGraph()
	_, err = bfs.BFS(g, "missing")
	require.ErrorIs(t, err, bfs.ErrStartVertexNotFound)
}

func TestBFS_ChainDepths(t *testing.T) {
	t.Parallel()

	g := stateGraph(t,
		[2]string{"start", "pad/0"},
		[2]string{"pad/0", "pad/0"},
		[2]string{"pad/0", "pad/1"},
		[2]string{"pad/1", "pad/2"},
	)
	res, err := bfs.BFS(g, "start")
	require.NoError(t, err)
	require.Equal(t, []string{"start", "pad/0", "pad/1", "pad/2"}, res.Order)
	require.Equal(t, 3, res.Depth["pad/2"])

	require.Equal(t, []string{"start", "pad/0", "pad/1", "pad/2"}, res.Path("pad/2"))
	require.Equal(t, []string{"start"}, res.Path("start"))
}

func TestBFS_ShortestPathWins(t *testing.T) {
	t.Parallel()

	g := stateGraph(t,
		[2]string{"start", "a"},
		[2]string{"a", "b"},
		[2]string{"b", "end"},
		[2]string{"start", "end"},
	)
	res, err := bfs.BFS(g, "start")
	require.NoError(t, err)
	require.Equal(t, []string{"start", "end"}, res.Path("end"))
	require.Equal(t, "start", res.Parent["end"])
}

func TestBFS_DirectedDoesNotWalkBackwards(t *testing.T) {
	t.Parallel()

	g := stateGraph(t, [2]string{"a", "b"}, [2]string{"c", "b"})
	res, err := bfs.BFS(g, "a")
	require.NoError(t, err)
	require.Equal(t, []string{"a", "b"}, res.Order)

	require.False(t, res.Reached("c"))
	require.Nil(t, res.Path("c"))
}

func TestUnreached(t *testing.T) {
	t.Parallel()

	g := stateGraph(t,
		[2]string{"start", "block"},
		[2]string{"block", "send/0"},
		[2]string{"orphan", "send/0"},
	)
	missing, res, err := bfs.Unreached(g, "start")
	require.NoError(t, err)
	require.Equal(t, []string{"orphan"}, missing)
	require.Equal(t, []string{"start", "block", "send/0"}, res.Path("send/0"))

	_, _, err = bfs.Unreached(g, "nope")
	require.ErrorIs(t, err, bfs.ErrStartVertexNotFound)
}
