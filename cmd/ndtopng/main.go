package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/kpfaulkner/ndview-go/color"
	"github.com/kpfaulkner/ndview-go/display"
	"github.com/kpfaulkner/ndview-go/imageformats"
	"github.com/kpfaulkner/ndview-go/ndimage"
	"github.com/kpfaulkner/ndview-go/options"
	"github.com/pkg/profile"
	log "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// Job describes one raw-volume-to-PNG conversion.
type Job struct {
	Input          string `yaml:"input"`
	Output         string `yaml:"output"`
	DataType       string `yaml:"datatype"`
	Sizes          []int  `yaml:"sizes"`
	TensorElements int    `yaml:"tensorElements"`
	ColorSpace     string `yaml:"colorSpace"`

	Display struct {
		Dim1          *int   `yaml:"dim1"`
		Dim2          *int   `yaml:"dim2"`
		Coordinates   []int  `yaml:"coordinates"`
		Projection    string `yaml:"projection"`
		Complex       string `yaml:"complex"`
		Range         string `yaml:"range"`
		GlobalStretch *bool  `yaml:"globalStretch"`
		Red           *int   `yaml:"red"`
		Green         *int   `yaml:"green"`
		Blue          *int   `yaml:"blue"`
	} `yaml:"display"`

	ColorMap string `yaml:"colorMap"`
}

func loadJob(path string) (*Job, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	job := &Job{TensorElements: 1}
	if err := yaml.Unmarshal(data, job); err != nil {
		return nil, err
	}
	if job.Input == "" || job.Output == "" {
		return nil, fmt.Errorf("job %s must name input and output files", path)
	}
	return job, nil
}

func run(job *Job) error {
	dtype, err := ndimage.ParseDataType(job.DataType)
	if err != nil {
		return err
	}
	f, err := os.Open(job.Input)
	if err != nil {
		return err
	}
	defer f.Close()
	img, err := imageformats.ReadRaw(f, dtype, job.Sizes, job.TensorElements)
	if err != nil {
		return err
	}
	if job.ColorSpace != "" {
		img.SetColorSpace(job.ColorSpace)
	}

	opts := options.NewDisplayOptions(&options.DisplayOptions{
		Dim1:          job.Display.Dim1,
		Dim2:          job.Display.Dim2,
		Projection:    job.Display.Projection,
		Complex:       job.Display.Complex,
		Range:         job.Display.Range,
		GlobalStretch: job.Display.GlobalStretch,
		Red:           job.Display.Red,
		Green:         job.Display.Green,
		Blue:          job.Display.Blue,
	})
	engine, err := display.New(img, color.NewManager(), opts)
	if err != nil {
		return err
	}
	if job.Display.Coordinates != nil {
		if err := engine.SetCoordinates(job.Display.Coordinates); err != nil {
			return err
		}
	}

	start := time.Now()
	out, err := engine.Output()
	if err != nil {
		return err
	}
	log.Infof("mapped %v %s volume in %d ms", job.Sizes, dtype, time.Since(start).Milliseconds())

	if job.ColorMap != "" && job.ColorMap != "none" {
		lut, err := display.ColorMapLut(job.ColorMap)
		if err != nil {
			return err
		}
		if out, err = display.ApplyColorMap(out, lut); err != nil {
			return err
		}
	}

	outFile, err := os.Create(job.Output)
	if err != nil {
		return err
	}
	defer outFile.Close()
	return imageformats.WritePNG(out, outFile)
}

func main() {
	jobFile := flag.String("job", "", "YAML job file")
	prof := flag.Bool("profile", false, "enable CPU profiling")
	flag.Parse()

	if *jobFile == "" {
		fmt.Printf("a job file must be specified\n")
		os.Exit(1)
	}
	if *prof {
		defer profile.Start(profile.CPUProfile, profile.ProfilePath(".")).Stop()
	}

	job, err := loadJob(*jobFile)
	if err != nil {
		log.Errorf("Error loading job: %v", err)
		os.Exit(1)
	}
	if err := run(job); err != nil {
		log.Errorf("Error running job: %v", err)
		os.Exit(1)
	}
	log.Infof("wrote %s", job.Output)
}
