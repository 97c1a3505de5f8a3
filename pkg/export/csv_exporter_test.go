package export

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCSVRender(t *testing.T) {
	exporter := NewCSVExporter()

	body, err := exporter.Render(Dataset{
		Headers: []string{"Name", "Email"},
		Rows: []map[string]string{
			{"Name": "Ada Lovelace", "Email": "ada@campus.test"},
			{"Name": "Grace Hopper", "Email": "grace@campus.test"},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "Name,Email\nAda Lovelace,ada@campus.test\nGrace Hopper,grace@campus.test\n", string(body))
}

func TestCSVRenderMissingColumnLeftEmpty(t *testing.T) {
	exporter := NewCSVExporter()

	body, err := exporter.Render(Dataset{
		Headers: []string{"Name", "Email"},
		Rows:    []map[string]string{{"Name": "Ada Lovelace"}},
	})
	require.NoError(t, err)
	assert.Equal(t, "Name,Email\nAda Lovelace,\n", string(body))
}

func TestCSVRenderRequiresHeaders(t *testing.T) {
	exporter := NewCSVExporter()

	_, err := exporter.Render(Dataset{})
	require.Error(t, err)
}

func TestPDFRenderProducesDocument(t *testing.T) {
	exporter := NewPDFExporter()

	body, err := exporter.Render(Dataset{
		Headers: []string{"Name", "Email"},
		Rows:    []map[string]string{{"Name": "Ada Lovelace", "Email": "ada@campus.test"}},
	}, "Roster Intro Section A")
	require.NoError(t, err)
	assert.True(t, len(body) > 0)
	assert.Equal(t, "%PDF", string(body[:4]))
}
