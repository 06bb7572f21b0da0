package arxiv

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleFeed = `<?xml version="1.0" encoding="UTF-8"?>
<feed xmlns="http://www.w3.org/2005/Atom">
  <entry>
    <id>http://arxiv.org/abs/2405.12345v2</id>
    <title>Attention Is
   All You Need</title>
    <summary>  We propose a new
  architecture.  </summary>
    <published>2024-05-20T17:59:59Z</published>
    <author><name>Ada Lovelace</name></author>
    <author><name>Alan Turing</name></author>
    <link href="http://arxiv.org/abs/2405.12345v2" rel="alternate"/>
    <link href="http://arxiv.org/pdf/2405.12345v2" title="pdf" rel="related"/>
    <category term="cs.CL"/>
    <category term="cs.LG"/>
  </entry>
  <entry>
    <id>http://arxiv.org/abs/2405.99999v1</id>
    <title>No PDF Link</title>
    <summary>Abstract.</summary>
    <published>2024-05-21T00:00:00Z</published>
    <author><name>Grace Hopper</name></author>
    <category term="cs.AI"/>
  </entry>
</feed>`

func TestSearchParsesFeed(t *testing.T) {
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("search_query")
		assert.Equal(t, "submittedDate", r.URL.Query().Get("sortBy"))
		assert.Equal(t, "descending", r.URL.Query().Get("sortOrder"))
		assert.Equal(t, "5", r.URL.Query().Get("max_results"))
		w.Write([]byte(sampleFeed))
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	papers, err := c.Search(context.Background(), "cat:cs.CL", 5)
	require.NoError(t, err)
	assert.Equal(t, "cat:cs.CL", gotQuery)
	require.Len(t, papers, 2)

	first := papers[0]
	assert.Equal(t, "2405.12345v2", first.Id)
	assert.Equal(t, "Attention Is All You Need", first.Title)
	assert.Equal(t, "We propose a new architecture.", first.Summary)
	assert.Equal(t, "Ada Lovelace, Alan Turing", first.Authors)
	assert.Equal(t, "cs.CL, cs.LG", first.Categories)
	assert.Equal(t, "http://arxiv.org/pdf/2405.12345v2", first.PdfUrl)
	assert.Equal(t, 2024, first.Published.Year())

	// Missing pdf link falls back to the canonical URL.
	assert.Equal(t, "https://arxiv.org/pdf/2405.99999v1", papers[1].PdfUrl)
}

func TestSearchCachesResponses(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Write([]byte(sampleFeed))
	}))
	defer srv.Close()

	c := NewClient(srv.URL)

	_, err := c.Search(context.Background(), "cat:cs.CL", 5)
	require.NoError(t, err)
	_, err = c.Search(context.Background(), "cat:cs.CL", 5)
	require.NoError(t, err)
	assert.Equal(t, 1, calls)

	// A different query misses the cache.
	_, err = c.Search(context.Background(), "cat:cs.LG", 5)
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
}

func TestSearchServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	_, err := c.Search(context.Background(), "cat:cs.CL", 5)
	assert.Error(t, err)
}

func TestArxivID(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{raw: "http://arxiv.org/abs/2405.12345v2", want: "2405.12345v2"},
		{raw: "https://arxiv.org/abs/cond-mat/0001001", want: "cond-mat/0001001"},
		{raw: "2405.12345", want: "2405.12345"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, arxivID(tt.raw))
	}
}
