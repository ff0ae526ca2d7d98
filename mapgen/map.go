// Copyright 2026 The SolarMap Authors
// SPDX-License-Identifier: Apache-2.0

// Package mapgen renders markers onto a Google Maps HTML artifact.
package mapgen

import (
	"fmt"
	"html/template"
	"io"
	"os"
	"strconv"

	"github.com/mkells/solarmap/spatial"
)

// DefaultOutputFile is the conventional name of the rendered artifact.
const DefaultOutputFile = "map.html"

// Marker is a renderable point: coordinate, tooltip title and icon image.
type Marker struct {
	Point    spatial.Point `json:"point"`
	Title    string        `json:"title"`
	IconPath string        `json:"icon_path"`
}

// Map accumulates markers and renders them around a center point.
type Map struct {
	center  spatial.Point
	zoom    int
	markers []Marker
}

// New creates a map centered on the given point at the given zoom level.
func New(center spatial.Point, zoom int) *Map {
	return &Map{center: center, zoom: zoom}
}

// AddMarker appends a marker, ready for rendering.
func (m *Map) AddMarker(marker Marker) {
	m.markers = append(m.markers, marker)
}

// Markers returns the collected markers in insertion order.
func (m *Map) Markers() []Marker {
	return m.markers
}

var mapTemplate = template.Must(template.New("map").Parse(`
<script src="https://maps.googleapis.com/maps/api/js?v=3.exp&sensor=false"></script>
<div id="map-canvas" style="height: 100%; width: 100%"></div>
<script type="text/javascript">
    var map;
    function showMap() {
        map = new google.maps.Map(document.getElementById("map-canvas"), {
            zoom: {{.Zoom}},
            center: new google.maps.LatLng({{.CenterLat}}, {{.CenterLng}})
        });
{{- range .Markers}}
        new google.maps.Marker({
            position: new google.maps.LatLng({{.Lat}}, {{.Lng}}),
            map: map,
            title: {{.Title}},
            icon: {{.Icon}}
        });
{{- end}}
    }
    google.maps.event.addDomListener(window, 'load', showMap);
</script>
`))

type markerView struct {
	Lat   template.JS
	Lng   template.JS
	Title string
	Icon  string
}

// jsFloat formats a trusted coordinate for direct placement in the script.
// html/template's own number escaping pads negative values with spaces.
func jsFloat(f float64) template.JS {
	return template.JS(strconv.FormatFloat(f, 'f', -1, 64)) // #nosec G203 - formatted from a float64, not user input
}

// Render writes the HTML map to w. Marker titles and icon paths are escaped
// by the template; coordinates are formatted from float64 directly.
func (m *Map) Render(w io.Writer) error {
	views := make([]markerView, 0, len(m.markers))
	for _, marker := range m.markers {
		views = append(views, markerView{
			Lat:   jsFloat(marker.Point.Lat),
			Lng:   jsFloat(marker.Point.Lng),
			Title: marker.Title,
			Icon:  marker.IconPath,
		})
	}

	data := struct {
		CenterLat template.JS
		CenterLng template.JS
		Zoom      int
		Markers   []markerView
	}{
		CenterLat: jsFloat(m.center.Lat),
		CenterLng: jsFloat(m.center.Lng),
		Zoom:      m.zoom,
		Markers:   views,
	}

	if err := mapTemplate.Execute(w, data); err != nil {
		return fmt.Errorf("rendering map: %w", err)
	}

	return nil
}

// WriteFile renders the map into the named file.
func (m *Map) WriteFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}

	if err := m.Render(f); err != nil {
		_ = f.Close()

		return err
	}

	return f.Close()
}
