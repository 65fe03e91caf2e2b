/*
Package reveal implements a "scratch-reveal" image widget. A color coded mask
image is partitioned into Voronoi cells around random sites, every cell is
classified into a caller defined region by comparing the mask color sampled at
its site against the region's target color, and revealing a region installs the
union of its cell polygons as the clip boundary of a hidden image layer.

The package provides a command line interface rendering the composited image.
To check the supported commands type:

	$ reveal --help

In case you wish to integrate the API in a self constructed environment here is a simple example:

	package main

	import (
		"context"
		"fmt"

		"github.com/esimov/reveal"
	)

	func main() {
		w, err := reveal.NewWidget(reveal.Config{
			Base:   "base.jpg",
			Reveal: "reveal.jpg",
			Mask:   "mask.png",
			Regions: []reveal.RegionConfig{
				{ID: "sea", Color: "#0000ff"},
			},
		})
		if err != nil {
			fmt.Printf("Invalid configuration: %s", err.Error())
			return
		}
		if err := w.Build(context.Background()); err != nil {
			fmt.Printf("Error building the widget: %s", err.Error())
			return
		}
		polygons, _ := w.RevealRegion("sea")
		fmt.Println(len(polygons))
	}
*/
package reveal
