package catalog

type Course struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Description string  `json:"description,omitempty"`
	ImageURL    string  `json:"image_url,omitempty"` // opaque uploaded-asset URL
	Price       float64 `json:"price"`
	Position    int     `json:"position,omitempty"`
	Active      bool    `json:"active"`
}

type TestSeries struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Active      bool   `json:"active"`
}

type Testimonial struct {
	ID       string `json:"id"`
	Author   string `json:"author"`
	Body     string `json:"body"`
	Rating   int    `json:"rating"`
	ImageURL string `json:"image_url,omitempty"`
	Active   bool   `json:"active"`
}

type FAQ struct {
	ID       string `json:"id"`
	Question string `json:"question"`
	Answer   string `json:"answer"`
	Position int    `json:"position,omitempty"`
	Active   bool   `json:"active"`
}
