package models

// Repo is one collected repository. Field names match the JSON written to
// raw_repos.json.
type Repo struct {
	Name        string   `json:"name"`
	FullName    string   `json:"full_name"`
	URL         string   `json:"html_url"`
	Description string   `json:"description"`
	Stars       int      `json:"stargazers_count"`
	Language    string   `json:"language"`
	Topics      []string `json:"topics"`
	Readme      string   `json:"readme"`
	UpdatedAt   string   `json:"updated_at"`
}

// Blurb is the generated summary for one repository, as written to
// summaries.json.
type Blurb struct {
	Name     string   `json:"name"`
	URL      string   `json:"url"`
	Text     string   `json:"blurb"`
	Stars    int      `json:"stars"`
	Language string   `json:"lang"`
	Topics   []string `json:"topics"`
}

// NewBlurb pairs a repository with its generated text.
func NewBlurb(repo Repo, text string) Blurb {
	topics := repo.Topics
	if topics == nil {
		topics = []string{}
	}
	return Blurb{
		Name:     repo.Name,
		URL:      repo.URL,
		Text:     text,
		Stars:    repo.Stars,
		Language: repo.Language,
		Topics:   topics,
	}
}

// SearchResult is one hit from a similarity search over archived blurbs.
type SearchResult struct {
	Name     string   `json:"name"`
	URL      string   `json:"url"`
	Blurb    string   `json:"blurb"`
	Stars    int      `json:"stars"`
	Language string   `json:"lang"`
	Topics   []string `json:"topics"`
	Score    float64  `json:"score"`
}
