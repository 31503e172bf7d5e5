package ingest

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	internalErrors "github.com/gcbaptista/go-school-search/internal/errors"
	"github.com/gcbaptista/go-school-search/model"
)

func quietLogger() *logrus.Entry {
	logger := logrus.New()
	logger.SetLevel(logrus.WarnLevel)
	return logrus.NewEntry(logger)
}

const sampleCSV = `NCESSCH,LEAID,LEANM05,SCHNAM05,LCITY05,LSTATE05,LATCOD,LONCOD,MLOCALE,ULOCALE,status05
010000500870,0100005,ALBERTVILLE CITY,ALBERTVILLE MIDDLE SCHOOL,ALBERTVILLE,AL,34.2602,-86.2062,7,41-Rural: Fringe,1
010000600877,0100006,MARSHALL COUNTY,"CROSSVILLE HIGH SCHOOL, ANNEX",CROSSVILLE,AL,34.2622,-85.9994,8,42-Rural: Distant,1
`

func TestRead_UTF8(t *testing.T) {
	rd := NewReader(Options{Encoding: "utf-8"}, quietLogger())

	records, err := rd.Read(strings.NewReader(sampleCSV))
	require.NoError(t, err)

	assert.Equal(t, []model.RawRecord{
		{Name: "ALBERTVILLE MIDDLE SCHOOL", City: "ALBERTVILLE", StateCode: "AL"},
		{Name: "CROSSVILLE HIGH SCHOOL, ANNEX", City: "CROSSVILLE", StateCode: "AL"},
	}, records)
}

func TestRead_Windows1252(t *testing.T) {
	// 0xD1 is Ñ in Windows-1252
	raw := []byte("SCHNAM05,LCITY05,LSTATE05\nPE\xD1ASCO ELEMENTARY,PE\xD1ASCO,NM\n")
	rd := NewReader(Options{}, quietLogger())

	records, err := rd.Read(bytes.NewReader(raw))
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "PEÑASCO ELEMENTARY", records[0].Name)
	assert.Equal(t, "PEÑASCO", records[0].City)
}

func TestRead_CustomColumnsAndBOM(t *testing.T) {
	input := "\uFEFFname,city,state\nA,B,C\n"
	rd := NewReader(Options{Encoding: "utf-8", Columns: Columns{Name: "name", City: "city", State: "state"}}, quietLogger())

	records, err := rd.Read(strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, []model.RawRecord{{Name: "A", City: "B", StateCode: "C"}}, records)
}

func TestRead_KeepsFieldsVerbatim(t *testing.T) {
	input := "SCHNAM05,LCITY05,LSTATE05\nPS  44 ,new york,ny\n"
	rd := NewReader(Options{Encoding: "utf-8"}, quietLogger())

	records, err := rd.Read(strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, "PS  44 ", records[0].Name)
	assert.Equal(t, "new york", records[0].City)
	assert.Equal(t, "ny", records[0].StateCode)
}

func TestRead_Errors(t *testing.T) {
	tests := []struct {
		name     string
		opts     Options
		input    string
		contains string
	}{
		{"empty input", Options{Encoding: "utf-8"}, "", "missing header row"},
		{"missing column", Options{Encoding: "utf-8"}, "SCHNAM05,LCITY05\nA,B\n", "LSTATE05"},
		{"short row", Options{Encoding: "utf-8"}, "SCHNAM05,LCITY05,LSTATE05\nA,B\n", "row 1"},
		{"unsupported encoding", Options{Encoding: "ebcdic"}, "x", "unsupported encoding"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewReader(tt.opts, quietLogger()).Read(strings.NewReader(tt.input))
			require.Error(t, err)
			assert.True(t, errors.Is(err, internalErrors.ErrIngest))
			assert.Contains(t, err.Error(), tt.contains)
		})
	}
}

func TestRead_HeaderOnly(t *testing.T) {
	records, err := NewReader(Options{Encoding: "utf-8"}, quietLogger()).Read(strings.NewReader("SCHNAM05,LCITY05,LSTATE05\n"))
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestFileLoader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "schools.csv")
	require.NoError(t, os.WriteFile(path, []byte(sampleCSV), 0600))

	rd := NewReader(Options{Encoding: "utf-8"}, quietLogger())
	records, err := rd.FileLoader(path)(context.Background())
	require.NoError(t, err)
	assert.Len(t, records, 2)

	_, err = rd.ReadFile(context.Background(), filepath.Join(t.TempDir(), "missing.csv"))
	assert.Error(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = rd.ReadFile(ctx, path)
	assert.ErrorIs(t, err, context.Canceled)
}
