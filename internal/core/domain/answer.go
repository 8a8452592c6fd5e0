package domain

// Citation points an answer back at a retrieved passage.
type Citation struct {
	ChunkID  string `json:"chunk_id"`
	DocTitle string `json:"doc_title"`
	Pages    []int  `json:"pages"`
}

// Answer is a generated answer with its supporting citations and the
// provider that produced it ("openai", "ollama", "extractive" or "none").
type Answer struct {
	Answer    string     `json:"answer"`
	Citations []Citation `json:"citations"`
	Provider  string     `json:"provider"`
}
