package parser

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const samplePage = `
<html><body>
<h1 class="content-title text-center">Acme recalls Widget</h1>
<dl class="lcds-description-list--grid">
  <dt>Company Announcement Date:</dt>
  <dd><time datetime="2024-04-30T10:00:00-04:00">April 30, 2024</time></dd>
  <dt>FDA Publish Date:</dt>
  <dd><time datetime="2024-05-01T00:00:00-04:00">May 1, 2024</time></dd>
  <dt>Product Type:</dt>
  <dd>Food &amp; Beverages</dd>
  <dt>Reason for Announcement:</dt>
  <dd>undeclared milk</dd>
  <dt>Company Name:</dt>
  <dd>Acme</dd>
  <dt>Brand Name:</dt>
  <dd><div class="field--items"><div class="field--item">Acme</div><div class="field--item">Widget Co</div></div></dd>
  <dt>Product Description:</dt>
  <dd>Widget 12oz<br/>Widget 16oz</dd>
</dl>
<p>Acme Foods of Springfield is recalling Widget because it may contain undeclared milk.</p>
<p>Products were distributed in California retail stores.</p>
</body></html>`

func TestParsePage(t *testing.T) {
	t.Parallel()

	page, err := ParsePage([]byte(samplePage))
	require.NoError(t, err)

	assert.Equal(t, []string{"undeclared milk"}, page.Fields[FieldRecallReason].Text)
	assert.Equal(t, []string{"Acme"}, page.Fields[FieldCompanyName].Text)
	assert.Equal(t, []string{"Food & Beverages"}, page.Fields[FieldProductType].Text)

	notification := page.Fields[FieldNotificationDttm]
	require.NotNil(t, notification.Time)
	assert.Equal(t, time.Date(2024, 5, 1, 4, 0, 0, 0, time.UTC), notification.Time.UTC())

	announce := page.Fields[FieldCompanyAnnounceDttm]
	require.NotNil(t, announce.Time)
	assert.Equal(t, time.Date(2024, 4, 30, 14, 0, 0, 0, time.UTC), announce.Time.UTC())

	assert.Equal(t, []string{"Acme", "Widget Co"}, page.Fields[FieldBrandName].Text)
	assert.Equal(t, []string{"Widget 12oz", "Widget 16oz"}, page.Fields[FieldProductDescription].Text)

	require.Len(t, page.Paragraphs, 2)
	assert.Contains(t, page.Paragraphs[1], "California")
}

func TestParsePageUnknownLabel(t *testing.T) {
	t.Parallel()

	html := `<dl class="lcds-description-list--grid">
	  <dt>Recall Number:</dt>
	  <dd>F-123</dd>
	</dl>`

	_, err := ParsePage([]byte(html))
	require.ErrorIs(t, err, ErrUnknownLabel)
}

func TestParsePageUnknownValueShape(t *testing.T) {
	t.Parallel()

	html := `<dl class="lcds-description-list--grid">
	  <dt>Company Name:</dt>
	  <dd><span>Acme</span><span>Foods</span></dd>
	</dl>`

	_, err := ParsePage([]byte(html))
	require.ErrorIs(t, err, ErrValueShape)
}

func TestParsePageMissingDescriptionList(t *testing.T) {
	t.Parallel()

	_, err := ParsePage([]byte(`<html><body><p>nothing here</p></body></html>`))
	require.ErrorIs(t, err, ErrMissingDescriptionList)
}

func TestParsePageBadDatetimeAttribute(t *testing.T) {
	t.Parallel()

	html := `<dl class="lcds-description-list--grid">
	  <dt>FDA Publish Date:</dt>
	  <dd><time datetime="May 1, 2024">May 1, 2024</time></dd>
	</dl>`

	_, err := ParsePage([]byte(html))
	require.Error(t, err)
}

func TestParsePageSingleFieldItem(t *testing.T) {
	t.Parallel()

	html := `<dl class="lcds-description-list--grid">
	  <dt>Brand Name:</dt>
	  <dd><div class="field--items"><div class="field--item">Acme</div></div></dd>
	</dl>`

	page, err := ParsePage([]byte(html))
	require.NoError(t, err)
	assert.Equal(t, []string{"Acme"}, page.Fields[FieldBrandName].Text)
}
