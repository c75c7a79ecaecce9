package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitTitle(t *testing.T) {
	cases := []struct {
		name string
		full string
		want string
	}{
		{"event circle artist", "(C91) [HitenKei (Hiten)] R.E.I.N.A [English] [Scrubs]", "R.E.I.N.A"},
		{"artist and group", "[Artist] Title (Group) [English]", "Title"},
		{"trailing ungrouped text", "[Artist] Title [English] not the title", "Title"},
		{
			"pipe separated translation",
			"[Morittokoke (Morikoke)] Hyrule Hanei no Tame no Katsudou! | Taking Steps to Ensure Hyrule's Prosperity! (The Legend of Zelda) [English] =The Lost Light= [Digital]",
			"Hyrule Hanei no Tame no Katsudou! | Taking Steps to Ensure Hyrule's Prosperity!",
		},
		{
			"stray closer before title",
			"Nori5rou] Imaizumin-chi wa Douyara Gal no Tamariba ni Natteru Rashii | IMAIZUMI BRINGS ALL THE GYARUS TO HIS HOUSE [English] [Decensored]",
			"Imaizumin-chi wa Douyara Gal no Tamariba ni Natteru Rashii | IMAIZUMI BRINGS ALL THE GYARUS TO HIS HOUSE",
		},
		{"two stray closers", "improperly closed]) title [English]", "title"},
		{"stray closer then group", "improperly closed 2) (not the title) title [English]", "title"},
		{"no brackets", "Just A Title", "Just A Title"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, SplitTitle(tc.full))
		})
	}
}

func TestSplitTitleFallback(t *testing.T) {
	bad := "(string) (with) (no) (title)"
	assert.Equal(t, bad, SplitTitle(bad))
	assert.Equal(t, "", SplitTitle(""))
}

func TestSplitTitleMismatchedCloserKeepsGroupOpen(t *testing.T) {
	// ']' does not close '(' so "inner" stays inside the group.
	assert.Equal(t, "after", SplitTitle("(open] inner) after [tag]"))
}

func TestTitleBlock(t *testing.T) {
	assert.Equal(t, "(C91) [HitenKei (Hiten)] [English] [Scrubs]",
		TitleBlock("(C91) [HitenKei (Hiten)] R.E.I.N.A [English] [Scrubs]"))
	assert.Equal(t, "", TitleBlock("Plain"))
}

func TestTitleBlockCutsWinningRun(t *testing.T) {
	assert.Equal(t, "[Title] [x]", TitleBlock("[Title] Title [x]"))
	assert.Equal(t, "(Title) [x]", TitleBlock(" (Title) Title [x]"))
	assert.Equal(t, "Nori] [English]", TitleBlock("Nori] Title [English]"))
}
