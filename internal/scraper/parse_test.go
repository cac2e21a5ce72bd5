package scraper

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const searchPage = `<html><body>
<ul>
  <li><a href="/partner/jobListing.htm?id=1">Data Scientist</a></li>
  <li><a href="https://www.glassdoor.fr/partner/jobListing.htm?id=2#top">ML Engineer</a></li>
  <li><a href="/partner/jobListing.htm?id=1">Data Scientist (again)</a></li>
  <li><a href="/Emploi/other.htm">Other</a></li>
  <li><a href="">Empty</a></li>
</ul>
</body></html>`

func TestParseListingLinks(t *testing.T) {
	links, err := ParseListingLinks(searchPage, "https://www.glassdoor.fr/Emploi/search.htm", DefaultSelectors().ListingLink)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"https://www.glassdoor.fr/partner/jobListing.htm?id=1",
		"https://www.glassdoor.fr/partner/jobListing.htm?id=2",
	}, links)
}

func TestParseListingLinksNoMatches(t *testing.T) {
	links, err := ParseListingLinks("<html></html>", "https://www.glassdoor.fr/", DefaultSelectors().ListingLink)
	require.NoError(t, err)
	assert.Empty(t, links)
}

func TestParseDetail(t *testing.T) {
	page := `<html><body>
<h1 class="heading_Heading__BqX5J">Senior Data Engineer</h1>
<a class="EmployerProfile_profileContainer__x1"><div>Acme</div><div>4.2</div></a>
<div class="JobDetails_locationXYZ">Paris</div>
<div class="JobDetails_jobDescription__abc"><p>We use <b>Python</b>.</p><p>SQL is a plus</p><script>var x = 1;</script></div>
</body></html>`

	fields, err := ParseDetail(page, DefaultSelectors())
	require.NoError(t, err)
	assert.Equal(t, "Senior Data Engineer", fields.Title)
	assert.Equal(t, "Acme\n4.2", fields.CompanyInfo)
	assert.Equal(t, "Paris", fields.Location)
	assert.Equal(t, "We use Python.\nSQL is a plus", fields.Description)
}

func TestParseDetailInlineTextStaysJoined(t *testing.T) {
	page := `<html><body><div class="JobDetails_jobDescription__abc">` +
		`<p><b>Python</b>ic code, <i>C</i>++ and<br>SQL</p>` +
		`<ul><li>Docker</li><li>  Kubernetes  </li></ul></div></body></html>`

	fields, err := ParseDetail(page, DefaultSelectors())
	require.NoError(t, err)
	assert.Equal(t, "Pythonic code, C++ and\nSQL\nDocker\nKubernetes", fields.Description)
}

func TestParseDetailPlaceholders(t *testing.T) {
	fields, err := ParseDetail(`<html><body><h1 class="heading_Heading__BqX5J">  </h1></body></html>`, Selectors{})
	require.NoError(t, err)
	assert.Equal(t, Fields{
		Title:       TitleUnavailable,
		CompanyInfo: CompanyUnavailable,
		Location:    LocationUnavailable,
		Description: DescriptionUnavailable,
	}, fields)
}

func TestSplitCompanyInfo(t *testing.T) {
	tests := []struct {
		info       string
		wantName   string
		wantRating string
	}{
		{info: "Acme\n4.2", wantName: "Acme", wantRating: "4.2"},
		{info: "Acme", wantName: "Acme", wantRating: RatingUnavailable},
		{info: "Acme\n4.2\nextra", wantName: "Acme", wantRating: "4.2"},
		{info: "", wantName: CompanyUnavailable, wantRating: RatingUnavailable},
		{info: CompanyUnavailable, wantName: CompanyUnavailable, wantRating: RatingUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.info, func(t *testing.T) {
			name, rating := SplitCompanyInfo(tt.info)
			assert.Equal(t, tt.wantName, name)
			assert.Equal(t, tt.wantRating, rating)
		})
	}
}
