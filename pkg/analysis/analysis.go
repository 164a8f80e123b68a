package analysis

import (
	"cmp"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/montanaflynn/stats"

	"github.com/matzehuels/friendgraph/pkg/graph"
)

// DefaultTop is the number of ranked nodes a report carries when Options.Top is unset.
const DefaultTop = 10

// Options configures Analyze.
type Options struct {
	// Top is the number of highest-degree nodes to rank. Zero means DefaultTop,
	// a negative value disables ranking.
	Top int
}

// Summary holds descriptive statistics over a set of per-node values.
type Summary struct {
	Mean   float64 `json:"mean" bson:"mean"`
	Median float64 `json:"median" bson:"median"`
	StdDev float64 `json:"stddev" bson:"stddev"`
	Min    float64 `json:"min" bson:"min"`
	Max    float64 `json:"max" bson:"max"`
}

// Bucket is one entry of a degree distribution.
type Bucket struct {
	Degree int `json:"degree" bson:"degree"`
	Count  int `json:"count" bson:"count"`
}

// Ranked is a node with its degree and distance-2 neighbor count.
type Ranked struct {
	Node      graph.NodeID `json:"node" bson:"node"`
	Degree    int          `json:"degree" bson:"degree"`
	Distance2 int          `json:"distance2" bson:"distance2"`
}

// Report is the result of analyzing a graph.
type Report struct {
	ID        string    `json:"id" bson:"_id"`
	Source    string    `json:"source,omitempty" bson:"source,omitempty"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`

	Nodes int `json:"nodes" bson:"nodes"`
	Edges int `json:"edges" bson:"edges"`

	DegreeDistribution []Bucket `json:"degree_distribution" bson:"degree_distribution"`
	Degree             Summary  `json:"degree" bson:"degree"`
	Distance2          Summary  `json:"distance2" bson:"distance2"`
	Top                []Ranked `json:"top,omitempty" bson:"top,omitempty"`
}

// Analyze computes a report for g. Every field except ID and CreatedAt is
// deterministic for a given graph.
func Analyze(g *graph.Graph, opts Options) *Report {
	top := opts.Top
	if top == 0 {
		top = DefaultTop
	}

	d2 := Distance2Counts(g)
	degrees := make([]float64, 0, g.NodeCount())
	reach := make([]float64, 0, g.NodeCount())
	for _, n := range g.Nodes().Sorted() {
		degrees = append(degrees, float64(g.Degree(n)))
		reach = append(reach, float64(d2[n]))
	}

	r := &Report{
		ID:                 uuid.NewString(),
		CreatedAt:          time.Now().UTC(),
		Nodes:              g.NodeCount(),
		Edges:              g.EdgeCount(),
		DegreeDistribution: Buckets(DegreeDistribution(g)),
		Degree:             Summarize(degrees),
		Distance2:          Summarize(reach),
	}
	if top > 0 {
		r.Top = rank(g, d2, top)
	}
	return r
}

// DegreeDistribution maps each degree to the number of nodes having it.
func DegreeDistribution(g *graph.Graph) map[int]int {
	dist := make(map[int]int)
	for n := range g.Nodes() {
		dist[g.Degree(n)]++
	}
	return dist
}

// Buckets flattens a degree distribution into ascending-degree order.
func Buckets(dist map[int]int) []Bucket {
	out := make([]Bucket, 0, len(dist))
	for d, c := range dist {
		out = append(out, Bucket{Degree: d, Count: c})
	}
	slices.SortFunc(out, func(a, b Bucket) int { return cmp.Compare(a.Degree, b.Degree) })
	return out
}

// Distance2Counts returns the size of each node's distance-2 neighbor set.
func Distance2Counts(g *graph.Graph) map[graph.NodeID]int {
	counts := make(map[graph.NodeID]int, g.NodeCount())
	for n := range g.Nodes() {
		counts[n] = g.NeighborsAtDistance2(n).Len()
	}
	return counts
}

// TopByDegree returns the k nodes with the highest degree.
// Ties are broken by ascending node ID.
func TopByDegree(g *graph.Graph, k int) []Ranked {
	return rank(g, Distance2Counts(g), k)
}

func rank(g *graph.Graph, d2 map[graph.NodeID]int, k int) []Ranked {
	if k <= 0 {
		return nil
	}
	ranked := make([]Ranked, 0, g.NodeCount())
	for n := range g.Nodes() {
		ranked = append(ranked, Ranked{Node: n, Degree: g.Degree(n), Distance2: d2[n]})
	}
	slices.SortFunc(ranked, func(a, b Ranked) int {
		if c := cmp.Compare(b.Degree, a.Degree); c != 0 {
			return c
		}
		return cmp.Compare(a.Node, b.Node)
	})
	if len(ranked) > k {
		ranked = ranked[:k]
	}
	return ranked
}

// Summarize computes descriptive statistics over values.
// An empty input yields the zero Summary.
func Summarize(values []float64) Summary {
	if len(values) == 0 {
		return Summary{}
	}
	data := stats.Float64Data(values)
	var s Summary
	s.Mean, _ = data.Mean()
	s.Median, _ = data.Median()
	s.StdDev, _ = data.StandardDeviation()
	s.Min, _ = data.Min()
	s.Max, _ = data.Max()
	return s
}
