package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOutputPath(t *testing.T) {
	assert.Equal(t, "reports/mei.xlsx", outputPath("reports/mei.pdf", ""))
	assert.Equal(t, "noext.xlsx", outputPath("noext", ""))
	assert.Equal(t, "out/x.xlsx", outputPath("in.pdf", "out/x.xlsx"))
}

func TestPrintInfo(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, printInfo(&buf, "a.pdf", 3, 2048, false))

	assert.Equal(t, "file:      a.pdf\npages:     3\nsize:      2048\nencrypted: false\n", buf.String())
}
