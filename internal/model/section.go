package model

// Section is one named block of the lab sheet. Images hold inline data URLs in
// attachment order.
type Section struct {
	ID      string   `json:"id"`
	Name    string   `json:"name"`
	Content string   `json:"content"`
	Images  []string `json:"images"`
}

func (s Section) Clone() Section {
	out := s
	out.Images = append([]string(nil), s.Images...)
	return out
}
