package domain

// BoardInfo summarizes a scraped Pinterest board.
type BoardInfo struct {
	Username  string `json:"username"`
	BoardName string `json:"board_name"`
	Title     string `json:"title"`
	TotalPins int    `json:"totalPins"`
}

// Pin is a single image reference scraped from a board page.
type Pin struct {
	Src string `json:"src"`
	Alt string `json:"alt,omitempty"`
}

// UploadedPin pairs a scraped pin with its public URL after publication.
type UploadedPin struct {
	Src       string `json:"src"`
	PublicURL string `json:"public_url"`
}
