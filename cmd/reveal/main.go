package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/esimov/reveal"
	"github.com/esimov/reveal/utils"
	"github.com/hashicorp/go-hclog"
)

const HelpBanner = `
┬─┐┌─┐┬  ┬┌─┐┌─┐┬
├┬┘├┤ └┐┌┘├┤ ├─┤│
┴└─└─┘ └┘ └─┘┴ ┴┴─┘

Voronoi scratch-reveal renderer.
    Version: %s

`

// pipeName is the file name that indicates stdout is being used.
const pipeName = "-"

// Version indicates the current build version.
var Version string

// regionList collects the repeatable -region flag values.
type regionList []reveal.RegionConfig

func (r *regionList) String() string {
	ids := make([]string, len(*r))
	for i, c := range *r {
		ids[i] = c.ID
	}
	return strings.Join(ids, ",")
}

func (r *regionList) Set(s string) error {
	cfg, err := reveal.ParseRegion(s)
	if err != nil {
		return err
	}
	*r = append(*r, cfg)
	return nil
}

var (
	// Flags
	base        = flag.String("base", "", "Base image shown before any reveal")
	revealSrc   = flag.String("reveal", "", "Hidden image uncovered by the revealed regions")
	mask        = flag.String("mask", "", "Color coded mask image")
	vertices    = flag.Int("vertices", reveal.DefaultVertices, "Number of Voronoi sites")
	threshold   = flag.Int("threshold", reveal.DefaultThreshold, "Color distance threshold")
	seed        = flag.Int64("seed", 0, "Random seed of the tessellation (0 means time based)")
	configFile  = flag.String("config", "", "JSON configuration file")
	show        = flag.String("show", "", "Comma separated list of regions to reveal (all when empty)")
	destination = flag.String("out", pipeName, "Destination of the composited image")
	overlay     = flag.String("overlay", "", "Destination of the cell overlay image")
	opacity     = flag.Float64("opacity", 0.5, "Fill opacity of the overlay cells")
	outline     = flag.Bool("outline", false, "Stroke the overlay cell borders")
	blend       = flag.String("blend", "", "Blend mode of the reveal layer (normal, darken, lighten, multiply, screen, overlay)")
	composite   = flag.String("composite", "", "Composition operator of the reveal layer (src_over, src_in, dst_out, xor, ...)")
	feather     = flag.Float64("feather", 0, "Sigma of the blur softening the reveal edges")
	report      = flag.Bool("report", false, "Print the region report as JSON")
	debug       = flag.Bool("debug", false, "Enable debug logging")

	regions regionList
)

func main() {
	log.SetFlags(0)

	flag.Var(&regions, "region", "Region as id=#rrggbb[:threshold] (repeatable)")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, HelpBanner, Version)
		flag.PrintDefaults()
	}
	flag.Parse()

	cfg, err := buildConfig()
	if err != nil {
		log.Fatalf("%s %s",
			utils.DecorateText("Invalid configuration:", utils.ErrorMessage),
			utils.DecorateText(err.Error(), utils.DefaultMessage),
		)
	}

	w, err := reveal.NewWidget(cfg)
	if err != nil {
		flag.Usage()
		log.Fatalf("\n%s", utils.DecorateText(err.Error(), utils.ErrorMessage))
	}

	level := hclog.Warn
	if *debug {
		level = hclog.Debug
	}
	w.Logger = hclog.New(&hclog.LoggerOptions{
		Name:   "reveal",
		Level:  level,
		Output: os.Stderr,
		Color:  hclog.AutoColor,
	})

	spinnerText := fmt.Sprintf("%s %s",
		utils.DecorateText("⚡ REVEAL", utils.StatusMessage),
		utils.DecorateText("is rendering the image...", utils.DefaultMessage))
	spinner := utils.NewSpinner(spinnerText, time.Millisecond*200)
	spinner.StopMsg = fmt.Sprintf("%s %s\n",
		utils.DecorateText("⚡ REVEAL", utils.StatusMessage),
		utils.DecorateText("is rendering the image... ✔", utils.DefaultMessage))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Capture CTRL-C signal, abort pending downloads and restore the cursor visibility back.
	signalChan := make(chan os.Signal, 1)
	signal.Notify(signalChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-signalChan
		cancel()
		spinner.RestoreCursor()
		os.Exit(1)
	}()

	op := &reveal.Ops{
		Out:       *destination,
		Overlay:   *overlay,
		PipeName:  pipeName,
		Show:      splitList(*show),
		Opacity:   cfg.Opacity,
		Outline:   *outline,
		Blend:     *blend,
		Composite: *composite,
		Feather:   *feather,
		Spinner:   spinner,
	}

	now := time.Now()
	err = w.Execute(ctx, op)
	printStatus(*destination, err)

	if *overlay != "" {
		fmt.Fprintf(os.Stderr, "The cell overlay has been saved as: %s\n",
			utils.DecorateText(filepath.Base(*overlay), utils.SuccessMessage))
	}
	if *report {
		enc := json.NewEncoder(os.Stderr)
		enc.SetIndent("", "  ")
		if err := enc.Encode(w.Report()); err != nil {
			log.Fatalf(utils.DecorateText("Cannot encode the region report: %v", utils.ErrorMessage), err)
		}
	}
	fmt.Fprintf(os.Stderr, "\nExecution time: %s\n",
		utils.DecorateText(utils.FormatTime(time.Since(now)), utils.SuccessMessage))
}

// buildConfig merges the configuration file, when given, with the explicitly set flags.
func buildConfig() (reveal.Config, error) {
	cfg := reveal.DefaultConfig()
	cfg.Opacity = *opacity
	if *configFile != "" {
		if err := reveal.ReadConfig(*configFile, &cfg); err != nil {
			return cfg, err
		}
	}

	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "base":
			cfg.Base = *base
		case "reveal":
			cfg.Reveal = *revealSrc
		case "mask":
			cfg.Mask = *mask
		case "vertices":
			cfg.Vertices = *vertices
		case "threshold":
			cfg.Threshold = threshold
		case "seed":
			cfg.Seed = *seed
		case "opacity":
			cfg.Opacity = *opacity
		case "region":
			cfg.Regions = regions
		}
	})
	return cfg, nil
}

func splitList(s string) []string {
	var list []string
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			list = append(list, item)
		}
	}
	return list
}

// printStatus displays the relevant information about the rendering process.
func printStatus(fname string, err error) {
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s%s",
			utils.DecorateText("\nError rendering the image:", utils.ErrorMessage),
			utils.DecorateText(fmt.Sprintf("\n\tReason: %v\n", err), utils.DefaultMessage),
		)
		os.Exit(1)
	}
	if fname != pipeName {
		fmt.Fprintf(os.Stderr, "\nThe revealed image has been saved as: %s\n",
			utils.DecorateText(filepath.Base(fname), utils.SuccessMessage),
		)
	}
}
