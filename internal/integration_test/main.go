// 指示: miu200521358
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"time"

	"github.com/miu200521358/mu_retarget/pkg/adapter/io_config"
	"github.com/miu200521358/mu_retarget/pkg/domain/model"
	"github.com/miu200521358/mu_retarget/pkg/usecase/rinteractor"
)

const (
	batchOutputDirMode = 0o755
)

// batchConfig は一括リターゲットの実行設定を表す。
type batchConfig struct {
	RigPath     string
	TrackedPath string
	ConfigPath  string
	OutputRoot  string
	DryRun      bool
	FailFast    bool
	PosePaths   []string
}

// retargetEntry は1姿勢列分の入力情報を表す。
type retargetEntry struct {
	Index      int
	SourcePath string
	PoseName   string
	OutputPath string
}

// retargetResult は1姿勢列分の処理結果を表す。
type retargetResult struct {
	Entry      retargetEntry
	Status     string
	Duration   time.Duration
	FrameCount int
	Err        error
}

// frameFeeder は姿勢列の現在フレームを供給する。
type frameFeeder struct {
	bones []model.TrackedBone
}

func (f *frameFeeder) PullTrackedBones() []model.TrackedBone {
	return f.bones
}

// main はリグ検証向けの姿勢列一括リターゲットを実行する。
func main() {
	os.Exit(run())
}

// run は実行設定を解決して一括処理を実行し、終了コードを返す。
func run() int {
	config, err := parseBatchConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "設定解析に失敗しました: %v\n", err)
		return 2
	}
	entries := buildRetargetEntries(config.OutputRoot, config.PosePaths)
	if len(entries) == 0 {
		fmt.Fprintln(os.Stderr, "処理対象の姿勢列がありません")
		return 2
	}

	results := executeBatchRetarget(config, entries)
	printBatchSummary(results)

	for _, result := range results {
		if result.Status == "failed" {
			return 1
		}
	}
	return 0
}

// parseBatchConfig はコマンドライン引数から実行設定を構築する。
func parseBatchConfig() (batchConfig, error) {
	defaultOutputRoot, err := resolveDefaultOutputRoot()
	if err != nil {
		return batchConfig{}, err
	}
	rig := flag.String("rig", "", "先リグ記述YAMLファイルパス")
	tracked := flag.String("tracked", "", "トラッキング元リグ記述YAMLファイルパス(省略時は先リグと同一)")
	configPath := flag.String("config", "", "リターゲット設定YAMLファイルパス")
	outputRoot := flag.String("output-root", defaultOutputRoot, "補正結果の出力ルートディレクトリ")
	dryRun := flag.Bool("dry-run", false, "実処理せず、入力解決と出力先計画のみ表示する")
	failFast := flag.Bool("fail-fast", false, "失敗時に即時終了する")
	flag.Parse()

	if strings.TrimSpace(*rig) == "" {
		return batchConfig{}, errors.New("rig が空です")
	}
	trimmedOutputRoot := strings.TrimSpace(*outputRoot)
	if trimmedOutputRoot == "" {
		return batchConfig{}, errors.New("output-root が空です")
	}
	trackedPath := strings.TrimSpace(*tracked)
	if trackedPath == "" {
		trackedPath = *rig
	}
	return batchConfig{
		RigPath:     *rig,
		TrackedPath: trackedPath,
		ConfigPath:  strings.TrimSpace(*configPath),
		OutputRoot:  filepath.Clean(trimmedOutputRoot),
		DryRun:      *dryRun,
		FailFast:    *failFast,
		PosePaths:   flag.Args(),
	}, nil
}

// resolveDefaultOutputRoot はスクリプト配置ディレクトリ基準の既定出力先を返す。
func resolveDefaultOutputRoot() (string, error) {
	_, currentFilePath, _, ok := runtime.Caller(0)
	if !ok {
		return "", errors.New("実行ファイル位置を取得できません")
	}
	currentDir := filepath.Dir(currentFilePath)
	return filepath.Join(currentDir, "output"), nil
}

// buildRetargetEntries は入力パス一覧から処理対象エントリを生成する。
func buildRetargetEntries(outputRoot string, posePaths []string) []retargetEntry {
	entries := make([]retargetEntry, 0, len(posePaths))
	for i, posePath := range posePaths {
		poseName := strings.TrimSuffix(filepath.Base(posePath), filepath.Ext(posePath))
		caseDirName := fmt.Sprintf("%03d_%s", i+1, poseName)
		outputPath := filepath.Join(outputRoot, caseDirName, poseName+"_retarget.yaml")
		entries = append(entries, retargetEntry{
			Index:      i + 1,
			SourcePath: posePath,
			PoseName:   poseName,
			OutputPath: outputPath,
		})
	}
	return entries
}

// executeBatchRetarget は全姿勢列の処理を順次実行する。
func executeBatchRetarget(config batchConfig, entries []retargetEntry) []retargetResult {
	results := make([]retargetResult, 0, len(entries))
	settings, err := loadSettings(config.ConfigPath)
	if err != nil {
		for _, entry := range entries {
			results = append(results, retargetResult{Entry: entry, Status: "failed", Err: err})
		}
		return results
	}

	total := len(entries)
	for _, entry := range entries {
		fmt.Printf("[%d/%d] 処理開始: pose=%s\n", entry.Index, total, entry.PoseName)
		result := retargetPoseEntry(config, settings, entry)
		results = append(results, result)
		switch result.Status {
		case "succeeded":
			fmt.Printf("[%d/%d] 処理成功: pose=%s frames=%d output=%s elapsed=%s\n",
				entry.Index, total, entry.PoseName, result.FrameCount,
				entry.OutputPath, result.Duration.Round(time.Millisecond))
		case "dry_run":
			fmt.Printf("[%d/%d] DRY-RUN: pose=%s input=%s output=%s\n",
				entry.Index, total, entry.PoseName, entry.SourcePath, entry.OutputPath)
		case "skipped_missing":
			fmt.Printf("[%d/%d] 入力不足でスキップ: pose=%s input=%s reason=%v\n",
				entry.Index, total, entry.PoseName, entry.SourcePath, result.Err)
		default:
			fmt.Printf("[%d/%d] 処理失敗: pose=%s reason=%v\n",
				entry.Index, total, entry.PoseName, result.Err)
			if config.FailFast {
				return results
			}
		}
	}
	return results
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
	return io_config.NewConfigRepository().Load(path)
}

// retargetPoseEntry は1姿勢列分の処理を実行する。
func retargetPoseEntry(config batchConfig, settings *io_config.RetargetSettings, entry retargetEntry) retargetResult {
	if _, err := os.Stat(entry.SourcePath); err != nil {
		return retargetResult{Entry: entry, Status: "skipped_missing", Err: err}
	}
	if config.DryRun {
		return retargetResult{Entry: entry, Status: "dry_run"}
	}

	started := time.Now()
	frameCount, err := retargetPoseFile(config, settings, entry)
	duration := time.Since(started)
	if err != nil {
		return retargetResult{Entry: entry, Status: "failed", Duration: duration, Err: err}
	}
	return retargetResult{Entry: entry, Status: "succeeded", Duration: duration, FrameCount: frameCount}
}

// retargetPoseFile は姿勢列を読み込み、全フレームを補正して書き出す。
func retargetPoseFile(config batchConfig, settings *io_config.RetargetSettings, entry retargetEntry) (int, error) {
	rigRepository := io_config.NewRigRepository()
	target, err := rigRepository.Load(config.RigPath)
	if err != nil {
		return 0, err
	}
	tracked, err := rigRepository.Load(config.TrackedPath)
	if err != nil {
		return 0, err
	}

	poseRepository := io_config.NewPoseRepository()
	frames, err := poseRepository.Load(entry.SourcePath)
	if err != nil {
		return 0, err
	}

	correctionMap, err := rinteractor.NewCorrectionMap(tracked, target)
	if err != nil {
		return 0, err
	}
	feeder := &frameFeeder{}
	retarget, err := rinteractor.NewRetargetUsecase(feeder, tracked, target, correctionMap)
	if err != nil {
		return 0, err
	}
	retarget.SetBodyPartMask(settings.Mask)
	retarget.SetArrayCapacity(settings.ArrayCapacity)

	params, err := rinteractor.NewDeformParams(target)
	if err != nil {
		return 0, err
	}
	deformConfig := rinteractor.NewDeformConfig()
	deformConfig.SpineMode = settings.SpineMode
	deformConfig.SpineAlignmentWeights = settings.SpineAlignmentWeights
	deformConfig.LegWeights = settings.LegWeights
	deformConfig.ArmWeights = settings.ArmWeights
	deform, err := rinteractor.NewBodyDeformUsecase(tracked, target, params, deformConfig)
	if err != nil {
		return 0, err
	}
	set, err := rinteractor.NewRetargetSet(entry.Index, retarget, deform, settings.Weight)
	if err != nil {
		return 0, err
	}

	results := make([][]model.TrackedBone, 0, len(frames))
	for _, bones := range frames {
		feeder.bones = bones
		set.ProcessFrame()
		results = append(results, snapshotPose(target))
	}

	if err := os.MkdirAll(filepath.Dir(entry.OutputPath), batchOutputDirMode); err != nil {
		return 0, err
	}
	if err := poseRepository.Save(entry.OutputPath, results); err != nil {
		return 0, err
	}
	return len(results), nil
}

// snapshotPose は処理済みスケルトンの全関節ワールド姿勢を写し取る。
func snapshotPose(skeleton *model.Skeleton) []model.TrackedBone {
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

// printBatchSummary は処理結果の集計を表示する。
func printBatchSummary(results []retargetResult) {
	statusCounts := map[string]int{}
	for _, result := range results {
		statusCounts[result.Status]++
	}
	statuses := make([]string, 0, len(statusCounts))
	for status := range statusCounts {
		statuses = append(statuses, status)
	}
	sort.Strings(statuses)

	fmt.Println("---- 一括リターゲット結果 ----")
	for _, status := range statuses {
		fmt.Printf("%s: %d\n", status, statusCounts[status])
	}
	for _, result := range results {
		if result.Status != "failed" {
			continue
		}
		fmt.Printf("failed detail: pose=%s reason=%v\n", result.Entry.PoseName, result.Err)
	}
}
