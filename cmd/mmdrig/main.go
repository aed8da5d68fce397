package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/binzume/mmdrig/converter"
	"github.com/binzume/mmdrig/gltfutil"
	"github.com/binzume/mmdrig/internal/config"
	"github.com/binzume/mmdrig/internal/logger"
	"github.com/binzume/mmdrig/mmd"
	"github.com/binzume/mmdrig/physics"
	"github.com/binzume/mmdrig/pose"
	"github.com/binzume/mmdrig/skeleton"
	"go.uber.org/zap"
)

var (
	vmdFile    = flag.String("vmd", "", "apply motion from this .vmd file")
	startFrame = flag.Int("frame", 0, "first motion frame")
	poseIn     = flag.String("pose-in", "", "import a pose snapshot before updating")
	poseOut    = flag.String("pose-out", "", "export a pose snapshot after updating")
	gltfOut    = flag.String("gltf", "", "export the skeleton as .glb or .gltf")
	dump       = flag.Bool("dump", false, "print the bone table")
	repackOut  = flag.String("repack", "", "rewrite the PMX bone section to this file")
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [options] model.pmx|model.pmd\n", os.Args[0])
		flag.PrintDefaults()
	}
	config.ParseFlags()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer logger.Sync()

	if flag.NArg() == 0 {
		flag.Usage()
		return
	}
	if err := run(cfg, flag.Arg(0)); err != nil {
		logger.Log.Error("failed", zap.String("input", flag.Arg(0)), zap.Error(err))
		logger.Sync()
		os.Exit(1)
	}
}

func run(cfg *config.Config, input string) error {
	data, err := os.ReadFile(input)
	if err != nil {
		return err
	}
	model, err := loadRig(input, data)
	if err != nil {
		return err
	}
	logger.Log.Info("model loaded", zap.String("input", input), zap.Int("bones", len(model.Bones())))

	if *repackOut != "" {
		if err := repack(data, *repackOut); err != nil {
			return err
		}
	}

	if !cfg.IK.Enabled {
		for _, b := range model.Bones() {
			b.SetInverseKinematicsEnable(false)
		}
	}

	var anim *mmd.Animation
	if *vmdFile != "" {
		if anim, err = loadAnimation(*vmdFile); err != nil {
			return err
		}
	}

	world := &subStepWorld{World: &physics.NullWorld{}, maxSubSteps: cfg.Simulation.MaxSubSteps}
	if *poseIn != "" {
		b, err := os.ReadFile(*poseIn)
		if err != nil {
			return err
		}
		if err := pose.Import(b, model, world); err != nil {
			return fmt.Errorf("importing pose %s: %w", *poseIn, err)
		}
	}

	dt := cfg.Simulation.StepSeconds()
	for i := 0; i < cfg.Simulation.Frames; i++ {
		if anim != nil {
			skeleton.ApplyMotion(model, anim, *startFrame+i)
		}
		model.Update(world, dt)
	}
	logger.Log.Info("updated", zap.Int("frames", cfg.Simulation.Frames), zap.Int("steps", world.steps()))

	if *poseOut != "" {
		if err := os.WriteFile(*poseOut, pose.Export(model), 0644); err != nil {
			return err
		}
		logger.Log.Info("pose exported", zap.String("output", *poseOut))
	}

	if *gltfOut != "" {
		conv := converter.NewSkeletonToGLTFConverter(&converter.SkeletonToGLTFOption{
			Scale: cfg.Export.GLTFScale,
			Name:  strings.TrimSuffix(filepath.Base(input), filepath.Ext(input)),
		})
		doc, err := conv.Convert(model)
		if err != nil {
			return err
		}
		if anim != nil {
			conv.AddMotion(anim)
		}
		if err := gltfutil.Save(doc, *gltfOut); err != nil {
			return err
		}
		logger.Log.Info("gltf exported", zap.String("output", *gltfOut), zap.Int("joints", gltfutil.JointCount(doc)))
	}

	if *dump {
		dumpBones(os.Stdout, model)
	}
	return nil
}
