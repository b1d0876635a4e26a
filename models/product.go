package models

type Product struct {
	ID       int      `json:"id" yaml:"id"`
	Name     string   `json:"name" yaml:"name"`
	Category string   `json:"category" yaml:"category"`
	Price    float64  `json:"price" yaml:"price"`
	Image    string   `json:"image" yaml:"image"`
	Tags     []string `json:"tags" yaml:"tags"`
}
