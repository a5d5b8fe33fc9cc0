package services

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidatePDF_RejectsEmptyData(t *testing.T) {
	assert.Error(t, ValidatePDF(nil))
	assert.Error(t, ValidatePDF([]byte{}))
}

func TestValidatePDF_RejectsWrongMagicBytes(t *testing.T) {
	assert.Error(t, ValidatePDF([]byte("not a pdf document")))
	assert.Error(t, ValidatePDF([]byte{0x89, 'P', 'N', 'G', 0x0d, 0x0a}))
}

func TestValidatePDF_RejectsOversizedDocument(t *testing.T) {
	oversized := bytes.Repeat([]byte("A"), maxReportDocumentSize+1)
	copy(oversized, "%PDF")

	assert.Error(t, ValidatePDF(oversized))
}

func TestValidatePDF_TruncatedBodyFailsStructuralCheck(t *testing.T) {
	// Right magic bytes, no cross-reference table or trailer.
	assert.Error(t, ValidatePDF([]byte("%PDF-1.7\ngarbage")))
}
