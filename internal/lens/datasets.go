package lens

import (
	"errors"
	"fmt"

	"github.com/geoview/geoview/internal/article"
)

// ErrDatasetsClosed is returned when a discarded registry is used.
var ErrDatasetsClosed = errors.New("dataset registry closed")

// Point is one labelled value in a series.
type Point struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

// Series is a named sequence of points.
type Series struct {
	Name   string  `json:"name"`
	Unit   string  `json:"unit,omitempty"`
	Points []Point `json:"points"`
}

// Dataset is the chart shown beside a split-lens section.
type Dataset struct {
	Type   article.VisualizationType `json:"type"`
	Title  string                    `json:"title"`
	XLabel string                    `json:"x_label"`
	Series []Series                  `json:"series"`
}

// Max returns the largest value across all series.
func (d Dataset) Max() float64 {
	maxVal := 0.0
	for _, s := range d.Series {
		for _, p := range s.Points {
			if p.Value > maxVal {
				maxVal = p.Value
			}
		}
	}
	return maxVal
}

// Datasets is the chart data owned by one post view. It is created when
// the view opens and discarded when it closes, so nothing leaks between
// views.
type Datasets struct {
	byType map[article.VisualizationType]Dataset
	closed bool
}

// NewDatasets returns an empty registry.
func NewDatasets() *Datasets {
	return &Datasets{byType: make(map[article.VisualizationType]Dataset)}
}

// Get returns the dataset for a visualization type, building it on first use.
func (d *Datasets) Get(vt article.VisualizationType) (Dataset, error) {
	if d.closed {
		return Dataset{}, ErrDatasetsClosed
	}
	if ds, ok := d.byType[vt]; ok {
		return ds, nil
	}
	build, ok := builders[vt]
	if !ok {
		return Dataset{}, fmt.Errorf("%w: %s", article.ErrInvalidViz, vt)
	}
	ds := build()
	d.byType[vt] = ds
	return ds, nil
}

// Len returns the number of datasets built so far.
func (d *Datasets) Len() int {
	return len(d.byType)
}

// Close discards every dataset.
func (d *Datasets) Close() {
	d.byType = nil
	d.closed = true
}

var builders = map[article.VisualizationType]func() Dataset{
	article.VizTemperatureChart: temperatureDataset,
	article.VizMigrationChart:   migrationDataset,
	article.VizUrbanGrowth:      urbanGrowthDataset,
}

func temperatureDataset() Dataset {
	return Dataset{
		Type:   article.VizTemperatureChart,
		Title:  "Temperature and green cover by area",
		XLabel: "area",
		Series: []Series{
			{Name: "Avg Temperature", Unit: "°C", Points: []Point{
				{"High Income", 24}, {"Mid Income", 27}, {"Low Income", 31}, {"Industrial", 33},
			}},
			{Name: "Green Cover", Unit: "%", Points: []Point{
				{"High Income", 45}, {"Mid Income", 30}, {"Low Income", 15}, {"Industrial", 5},
			}},
		},
	}
}

func migrationDataset() Dataset {
	return Dataset{
		Type:   article.VizMigrationChart,
		Title:  "Climate migration and temperature anomaly",
		XLabel: "year",
		Series: []Series{
			{Name: "Climate Migrations", Unit: "thousands", Points: []Point{
				{"2010", 1200}, {"2012", 1500}, {"2014", 1800}, {"2016", 2400},
				{"2018", 3200}, {"2020", 4100}, {"2022", 5300},
			}},
			{Name: "Temperature Anomaly", Unit: "°C", Points: []Point{
				{"2010", 1.0}, {"2012", 1.1}, {"2014", 1.3}, {"2016", 1.4},
				{"2018", 1.6}, {"2020", 1.8}, {"2022", 2.0},
			}},
		},
	}
}

func urbanGrowthDataset() Dataset {
	return Dataset{
		Type:   article.VizUrbanGrowth,
		Title:  "Land use share over time",
		XLabel: "year",
		Series: []Series{
			{Name: "Urban", Unit: "%", Points: []Point{
				{"2000", 45}, {"2005", 52}, {"2010", 60}, {"2015", 68}, {"2020", 75}, {"2025", 80},
			}},
			{Name: "Green", Unit: "%", Points: []Point{
				{"2000", 35}, {"2005", 30}, {"2010", 25}, {"2015", 22}, {"2020", 18}, {"2025", 15},
			}},
			{Name: "Rural", Unit: "%", Points: []Point{
				{"2000", 20}, {"2005", 18}, {"2010", 15}, {"2015", 10}, {"2020", 7}, {"2025", 5},
			}},
		},
	}
}
