package academic

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGrade(t *testing.T) {
	tests := map[int]string{
		100: "A", 75: "A", 70: "A",
		69: "B", 60: "B",
		59: "C", 50: "C",
		49: "D", 40: "D",
		39: "E", 30: "E",
		29: "F", 0: "F",
	}
	for total, want := range tests {
		assert.Equal(t, want, Grade(total), "total %d", total)
	}
}

func TestTerm(t *testing.T) {
	for _, term := range []Term{TermFirst, TermSecond, TermThird, TermAll} {
		assert.True(t, term.Valid(), term)
	}
	assert.False(t, Term("fourth").Valid())
}
