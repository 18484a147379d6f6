package metascraper

import (
	"testing"

	"github.com/stretchr/testify/require"

	"previewd/internal/preview"
)

const fullDocument = `<!DOCTYPE html>
<html lang="en">
<head>
<title>Example Title</title>
<meta name="description" content="An example page">
<meta name="author" content="Jane Roe">
<meta name="date" content="2024-06-01">
<meta name="viewport" content="width=device-width">
<meta property="og:image" content="https://example.com/cover.png">
<link rel="canonical" href="https://example.com/">
<link rel="amphtml" href="https://example.com/amp">
<link type="application/rss+xml" href="https://example.com/feed.xml">
</head>
<body><p>hello</p></body>
</html>`

func TestParse_ExtractsAllFields(t *testing.T) {
	t.Parallel()

	meta, err := New().Parse(fullDocument)
	require.NoError(t, err)

	require.NotNil(t, meta.Title)
	require.Equal(t, "Example Title", *meta.Title)
	require.NotNil(t, meta.Description)
	require.Equal(t, "An example page", *meta.Description)
	require.NotNil(t, meta.Canonical)
	require.Equal(t, "https://example.com/", *meta.Canonical)
	require.NotNil(t, meta.Language)
	require.Equal(t, "en", *meta.Language)
	require.NotNil(t, meta.RSS)
	require.Equal(t, "https://example.com/feed.xml", *meta.RSS)
	require.NotNil(t, meta.Image)
	require.Equal(t, "https://example.com/cover.png", *meta.Image)
	require.NotNil(t, meta.AMP)
	require.Equal(t, "https://example.com/amp", *meta.AMP)
	require.NotNil(t, meta.Author)
	require.Equal(t, "Jane Roe", *meta.Author)
	require.NotNil(t, meta.Date)
	require.Equal(t, "2024-06-01", *meta.Date)
}

func TestParse_MissingFieldsAreNil(t *testing.T) {
	t.Parallel()

	meta, err := New().Parse(`<html><body><p>nothing here</p></body></html>`)
	require.NoError(t, err)

	require.Nil(t, meta.Title)
	require.Nil(t, meta.Description)
	require.Nil(t, meta.Canonical)
	require.Nil(t, meta.Language)
	require.Nil(t, meta.RSS)
	require.Nil(t, meta.Image)
	require.Nil(t, meta.AMP)
	require.Nil(t, meta.Author)
	require.Nil(t, meta.Date)
	require.Nil(t, meta.Metatags)
}

func TestParse_MetatagsPreserveOrderAndDuplicates(t *testing.T) {
	t.Parallel()

	doc := `<html><head>
<meta name="description" content="first">
<meta name="keywords" content="a,b">
<meta name="description" content="second">
<meta property="og:title" content="not a named tag">
<meta name="nocontent">
</head></html>`

	meta, err := New().Parse(doc)
	require.NoError(t, err)
	require.Equal(t, []preview.Metatag{
		{Name: "description", Content: "first"},
		{Name: "keywords", Content: "a,b"},
		{Name: "description", Content: "second"},
	}, meta.Metatags)
}

func TestParse_OpenGraphFallbacks(t *testing.T) {
	t.Parallel()

	doc := `<html><head>
<meta property="og:title" content="OG Title">
<meta property="og:description" content="OG description">
<meta property="og:image" content="https://example.com/og.png">
</head></html>`

	meta, err := New().Parse(doc)
	require.NoError(t, err)
	require.NotNil(t, meta.Title)
	require.Equal(t, "OG Title", *meta.Title)
	require.NotNil(t, meta.Description)
	require.Equal(t, "OG description", *meta.Description)
	require.NotNil(t, meta.Image)
	require.Equal(t, "https://example.com/og.png", *meta.Image)
}

func TestParse_PlainTagsWinOverOpenGraph(t *testing.T) {
	t.Parallel()

	doc := `<html><head>
<title>Plain Title</title>
<meta property="og:title" content="OG Title">
</head></html>`

	meta, err := New().Parse(doc)
	require.NoError(t, err)
	require.Equal(t, "Plain Title", *meta.Title)
}

func TestParse_TruncatedDocumentIsBestEffort(t *testing.T) {
	t.Parallel()

	// Cut mid-tag, the way the bounded fetcher leaves oversized bodies.
	doc := `<html lang="de"><head><title>Example</title><meta name="descri`

	meta, err := New().Parse(doc)
	require.NoError(t, err)
	require.NotNil(t, meta.Title)
	require.Equal(t, "Example", *meta.Title)
	require.NotNil(t, meta.Language)
	require.Equal(t, "de", *meta.Language)
	require.Nil(t, meta.Description)
}
