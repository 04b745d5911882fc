// 指示: miu200521358
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/miu200521358/mu_retarget/pkg/adapter/io_config"
	"github.com/miu200521358/mu_retarget/pkg/domain/model"
	"github.com/miu200521358/mu_retarget/pkg/infra/base/mlogging"
	"github.com/miu200521358/mu_retarget/pkg/shared/base/logging"
	"github.com/miu200521358/mu_retarget/pkg/usecase/rinteractor"
)

// options はCLI引数を保持する。
type options struct {
	rigPath     string
	trackedPath string
	configPath  string
	outputDir   string
	verbose     bool
	posePaths   []string
}

// main はトラッキング姿勢列のリターゲットを実行する。
func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// run はCLI処理全体を実行する。姿勢列ファイルごとに独立したパイプラインを組み、
// 並列に処理する。パイプライン間で共有する状態はない。
func run(args []string, out io.Writer, errOut io.Writer) error {
	opts, err := parseOptions(args, errOut)
	if err != nil {
		return err
	}

	logger := mlogging.NewLogger(nil)
	if opts.verbose {
		logger.SetLevel(logging.LOG_LEVEL_DEBUG)
		logger.EnableVerbose(logging.VERBOSE_INDEX_RETARGET,
			logging.VERBOSE_INDEX_DEFORM, logging.VERBOSE_INDEX_CONFIG)
	}
	logging.SetDefaultLogger(logger)

	settings, err := loadSettings(opts.configPath)
	if err != nil {
		return err
	}
	if err := ensureOutputDir(opts.outputDir); err != nil {
		return err
	}

	var group errgroup.Group
	group.SetLimit(runtime.NumCPU())
	for index, posePath := range opts.posePaths {
		index, posePath := index, posePath
		group.Go(func() error {
			outputPath := resolveOutputPath(opts.outputDir, posePath)
			fmt.Fprintf(out, "[mu_retarget] 処理開始: %s\n", posePath)
			if err := processPoseFile(index, opts, settings, posePath, outputPath); err != nil {
				return fmt.Errorf("姿勢列の処理に失敗しました: file=%s: %w", posePath, err)
			}
			fmt.Fprintf(out, "[mu_retarget] 処理完了: %s -> %s\n", posePath, outputPath)
			return nil
		})
	}
	return group.Wait()
}

// parseOptions はCLI引数を解析する。
func parseOptions(args []string, errOut io.Writer) (options, error) {
	fs := flag.NewFlagSet("mu_retarget", flag.ContinueOnError)
	fs.SetOutput(errOut)

	rig := fs.String("rig", "", "先リグ記述YAMLファイルパス")
	tracked := fs.String("tracked", "", "トラッキング元リグ記述YAMLファイルパス(省略時は先リグと同一)")
	config := fs.String("config", "", "リターゲット設定YAMLファイルパス")
	output := fs.String("out", "", "出力先ディレクトリ(省略時は入力と同じ場所)")
	verbose := fs.Bool("verbose", false, "詳細ログを有効にする")
	if err := fs.Parse(args); err != nil {
		return options{}, err
	}

	if *rig == "" {
		return options{}, fmt.Errorf("先リグ記述ファイルを指定してください (-rig)")
	}
	if fs.NArg() == 0 {
		return options{}, fmt.Errorf("トラッキング姿勢列ファイルを指定してください")
	}
	if *tracked == "" {
		*tracked = *rig
	}

	return options{
		rigPath:     *rig,
		trackedPath: *tracked,
		configPath:  *config,
		outputDir:   *output,
		verbose:     *verbose,
		posePaths:   fs.Args(),
	}, nil
}

// loadSettings はリターゲット設定を読み込む。パス未指定の場合は既定設定を返す。
func loadSettings(path string) (*io_config.RetargetSettings, error) {
	if path == "" {
		return &io_config.RetargetSettings{
			Weight:        1.0,
			ArrayCapacity: -1,
			Mask:          model.FullBodyMask(),
		}, nil
	}
	settings, err := io_config.NewConfigRepository().Load(path)
	if err != nil {
		return nil, fmt.Errorf("設定の読み込みに失敗しました: %w", err)
	}
	return settings, nil
}

// frameSource は姿勢列の現在フレームを供給する。
type frameSource struct {
	bones []model.TrackedBone
}

func (s *frameSource) PullTrackedBones() []model.TrackedBone {
	return s.bones
}

// processPoseFile は1つの姿勢列ファイルを読み込み、全フレームを補正して書き出す。
// スケルトンとパイプラインはファイルごとに独立して構築する。
func processPoseFile(
	index int,
	opts options,
	settings *io_config.RetargetSettings,
	posePath string,
	outputPath string,
) error {
	rigRepository := io_config.NewRigRepository()
	target, err := rigRepository.Load(opts.rigPath)
	if err != nil {
		return fmt.Errorf("先リグの読み込みに失敗しました: %w", err)
	}
	tracked, err := rigRepository.Load(opts.trackedPath)
	if err != nil {
		return fmt.Errorf("トラッキング元リグの読み込みに失敗しました: %w", err)
	}

	poseRepository := io_config.NewPoseRepository()
	frames, err := poseRepository.Load(posePath)
	if err != nil {
		return err
	}

	set, source, err := buildRetargetSet(index, tracked, target, settings)
	if err != nil {
		return err
	}

	results := make([][]model.TrackedBone, 0, len(frames))
	for _, bones := range frames {
		source.bones = bones
		set.ProcessFrame()
		results = append(results, capturePose(target))
	}
	return poseRepository.Save(outputPath, results)
}

// buildRetargetSet は設定を反映したパイプラインの組を構築する。
func buildRetargetSet(
	index int,
	tracked, target *model.Skeleton,
	settings *io_config.RetargetSettings,
) (*rinteractor.RetargetSet, *frameSource, error) {
	correctionMap, err := rinteractor.NewCorrectionMap(tracked, target)
	if err != nil {
		return nil, nil, fmt.Errorf("補正マップの構築に失敗しました: %w", err)
	}

	source := &frameSource{}
	retarget, err := rinteractor.NewRetargetUsecase(source, tracked, target, correctionMap)
	if err != nil {
		return nil, nil, err
	}
	retarget.SetBodyPartMask(settings.Mask)
	retarget.SetUseProxy(settings.UseProxy)
	retarget.SetApplyConstraintOffsets(settings.ApplyConstraintOffsets)
	retarget.SetArrayCapacity(settings.ArrayCapacity)
	for _, section := range settings.DisabledPositionSections {
		retarget.Table().SetSectionPositionUpdate(section, false)
	}
	for _, adjustment := range settings.JointAdjustments {
		retarget.Table().SetAdjustment(adjustment)
	}

	params, err := rinteractor.NewDeformParams(target)
	if err != nil {
		return nil, nil, fmt.Errorf("変形パラメーターの構築に失敗しました: %w", err)
	}
	config := rinteractor.NewDeformConfig()
	config.SpineMode = settings.SpineMode
	config.SpineAlignmentWeights = settings.SpineAlignmentWeights
	config.ShoulderWeights = settings.ShoulderWeights
	config.LegWeights = settings.LegWeights
	config.ArmWeights = settings.ArmWeights
	config.HandWeights = settings.HandWeights
	config.ShoulderHeightReduction = settings.ShoulderHeightReduction
	config.ShoulderWidthReduction = settings.ShoulderWidthReduction
	config.ArmHeightAdjustment = settings.ArmHeightAdjustment
	config.BoneAdjustments = settings.BoneAdjustments

	deform, err := rinteractor.NewBodyDeformUsecase(tracked, target, params, config)
	if err != nil {
		return nil, nil, err
	}

	set, err := rinteractor.NewRetargetSet(index, retarget, deform, settings.Weight)
	if err != nil {
		return nil, nil, err
	}
	return set, source, nil
}

// capturePose は処理済みスケルトンの全関節ワールド姿勢を書き出し用に写し取る。
func capturePose(skeleton *model.Skeleton) []model.TrackedBone {
	bones := make([]model.TrackedBone, 0, skeleton.JointCount())
	for id := model.JointId(0); id < model.JOINT_ID_COUNT; id++ {
		joint, ok := skeleton.Joint(id)
		if !ok {
			continue
		}
		bones = append(bones, model.TrackedBone{
			Id: id,
			Transform: model.Transform{
				Position: joint.WorldPosition(),
				Rotation: joint.WorldRotation(),
			},
		})
	}
	return bones
}

// resolveOutputPath は出力先パスを解決する。
func resolveOutputPath(outputDir string, posePath string) string {
	base := filepath.Base(posePath)
	ext := filepath.Ext(base)
	name := strings.TrimSuffix(base, ext) + "_retarget" + ext
	if strings.TrimSpace(outputDir) == "" {
		return filepath.Join(filepath.Dir(posePath), name)
	}
	return filepath.Join(outputDir, name)
}

// ensureOutputDir は出力先ディレクトリを作成する。
func ensureOutputDir(dir string) error {
	if dir == "" || dir == "." {
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("出力先ディレクトリの作成に失敗しました: %w", err)
	}
	return nil
}
