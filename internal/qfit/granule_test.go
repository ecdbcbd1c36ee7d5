package qfit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseGranuleDate(t *testing.T) {
	t.Parallel()

	cases := map[string]GranuleDate{
		"ILATM1B_20090331_140726.atm4cT2.qi": {Year: 2009, Month: 3, Day: 31},
		"ILNSA1B_20111018_121554.atm4bT4.qi": {Year: 2011, Month: 10, Day: 18},
		"BLATM1B_930623_142547.qi":           {Year: 1993, Month: 6, Day: 23},
		"BLATM1B_020715_162244.qi":           {Year: 2002, Month: 7, Day: 15},
		"/data/atm/ILATM1B_19970512_x.qi":    {Year: 1997, Month: 5, Day: 12},
	}
	for name, want := range cases {
		t.Run(name, func(t *testing.T) {
			got, err := ParseGranuleDate(name)
			require.NoError(t, err)
			assert.Equal(t, want, got)
		})
	}
}

func TestParseGranuleDateRejects(t *testing.T) {
	t.Parallel()

	names := []string{
		"ILATM1B.qi",                // no date
		"ILATM2_20090331_x.qi",      // unknown mission prefix
		"ILATM1B_20090331_x.h5",     // wrong extension
		"ILATM1B_20091331_x.qi",     // month 13
		"notes_ILATM1B_20090331.qi", // prefix not at start
	}
	for _, name := range names {
		t.Run(name, func(t *testing.T) {
			_, err := ParseGranuleDate(name)
			assert.Error(t, err)
		})
	}
}

func TestGranuleDateString(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "1993-06-23", GranuleDate{Year: 1993, Month: 6, Day: 23}.String())
}
