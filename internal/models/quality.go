package models

// DimensionScores holds the five per-dimension quality scores, each in [0,100].
type DimensionScores struct {
	Clarity      int `json:"clarity"`
	Completeness int `json:"completeness"`
	Accuracy     int `json:"accuracy"`
	Engagement   int `json:"engagement"`
	Pedagogy     int `json:"pedagogy"`
}

// DimensionWeights holds the fixed weight of each dimension. The weights sum
// to 1.0.
type DimensionWeights struct {
	Clarity      float64 `json:"clarity"`
	Completeness float64 `json:"completeness"`
	Accuracy     float64 `json:"accuracy"`
	Engagement   float64 `json:"engagement"`
	Pedagogy     float64 `json:"pedagogy"`
}

// QualityScore is the heuristic quality assessment of one assistant response.
// It is derived from the response text alone and never mutated after creation.
type QualityScore struct {
	Overall    int              `json:"overall"`
	Dimensions DimensionScores  `json:"dimensions"`
	Weights    DimensionWeights `json:"weights"`
}
