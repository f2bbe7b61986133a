package chess

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeInitialPosition(t *testing.T) {
	assert.Equal(t, InitialFEN, EncodeFEN(NewGame()))
}

func TestRoundTripPreservesPosition(t *testing.T) {
	g := NewGame()
	play(t, g, "e2e4", "c7c5", "g1f3", "d7d6", "d2d4", "c5d4")

	decoded, err := DecodeFEN(EncodeFEN(g))
	require.NoError(t, err)

	if diff := cmp.Diff(g.Conditions(), decoded.Conditions()); diff != "" {
		t.Errorf("conditions differ after round trip:\n%s", diff)
	}
	if diff := cmp.Diff(g.Board(), decoded.Board(), cmp.AllowUnexported(Board{})); diff != "" {
		t.Errorf("board differs after round trip:\n%s", diff)
	}
}

func TestDecodeYieldsSingleEntryTimelines(t *testing.T) {
	g := NewGame()
	play(t, g, "e2e4", "e7e5", "g1f3")

	decoded, err := DecodeFEN(EncodeFEN(g))
	require.NoError(t, err)

	// History is never reconstructed from a snapshot.
	assert.Equal(t, 0, decoded.HeadIndex())
	assert.Equal(t, 1, decoded.Len())
	assert.Equal(t, Black, decoded.SideToMove())
	_, ok := decoded.LastHalfMove()
	assert.False(t, ok)
}

func TestRoundTripKeepsEnPassantTarget(t *testing.T) {
	g := NewGame()
	play(t, g, "e2e4")

	decoded, err := DecodeFEN(EncodeFEN(g))
	require.NoError(t, err)
	assert.Equal(t, MustParseSquare("e3"), decoded.Conditions().EnPassantTarget)
}

func TestDecodeRejectsMalformedText(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{"empty", ""},
		{"too few fields", "8/8/8/8/8/8/8/8 w - -"},
		{"seven ranks", "8/8/8/8/8/8/4k2K w - - 0 1"},
		{"rank too long", "rnbqkbnrr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"},
		{"rank too short", "rnbqkbn/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"},
		{"unknown letter", "rnbqkbnx/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"},
		{"missing kings", "8/pppppppp/8/8/8/8/PPPPPPPP/8 w - - 0 1"},
		{"bad side", "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR x KQkq - 0 1"},
		{"bad castling", "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KZkq - 0 1"},
		{"bad en passant square", "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq e9 0 1"},
		{"en passant on wrong rank", "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq e4 0 1"},
		{"negative clock", "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - -1 1"},
		{"zero full move", "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 0"},
		{"clock not a number", "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - x 1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeFEN(tt.text)
			require.ErrorIs(t, err, ErrInvalidFEN)
		})
	}
}

func TestDecodedGameIsPlayable(t *testing.T) {
	g, err := DecodeFEN("rnbqkbnr/ppp1pppp/8/3pP3/8/8/PPPP1PPP/RNBQKBNR w KQkq d6 0 3")
	require.NoError(t, err)

	m, ok := g.LegalMove(MustParseSquare("e5"), MustParseSquare("d6"))
	require.True(t, ok)
	require.Equal(t, MoveEnPassant, m.Kind)

	_, err = g.ExecuteMove(m)
	require.NoError(t, err)
	assert.Equal(t, 1, g.HeadIndex())
}
