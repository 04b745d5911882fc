// 指示: miu200521358
package io_config

import (
	"fmt"

	"github.com/miu200521358/mu_retarget/pkg/domain/mmath"
	"github.com/miu200521358/mu_retarget/pkg/domain/model"
)

// RetargetSettings は読み込み・検証済みのリターゲット実行設定を表す。
// 構築後は不変として扱い、パイプラインへそのまま引き渡す。
type RetargetSettings struct {
	Weight                 float64
	UseProxy               bool
	ApplyConstraintOffsets bool
	ArrayCapacity          int

	Mask                     model.BodyPartMask
	DisabledPositionSections []model.BodySection

	SpineMode             model.SpineCorrectionMode
	SpineAlignmentWeights [3]float64

	ShoulderWeights         [2]float64
	ShoulderHeightReduction float64
	ShoulderWidthReduction  float64
	LegWeights              [2]float64
	ArmWeights              [2]float64
	ArmHeightAdjustment     float64
	HandWeights             [2]float64

	JointAdjustments []*model.JointAdjustment
	BoneAdjustments  []model.BoneAdjustmentEntry
}

// configFile はリターゲット設定YAMLのファイル表現を表す。
type configFile struct {
	Weight                 float64 `yaml:"weight" validate:"gte=0,lte=1"`
	UseProxy               bool    `yaml:"use_proxy"`
	ApplyConstraintOffsets bool    `yaml:"apply_constraint_offsets"`
	ArrayCapacity          *int    `yaml:"array_capacity"`

	DisabledSections         []string `yaml:"disabled_sections"`
	DisabledPositionSections []string `yaml:"disabled_position_sections"`

	Spine struct {
		Mode             string     `yaml:"mode"`
		AlignmentWeights [3]float64 `yaml:"alignment_weights" validate:"dive,gte=0,lte=1"`
	} `yaml:"spine"`

	Shoulders struct {
		Weights         [2]float64 `yaml:"weights" validate:"dive,gte=0,lte=1"`
		HeightReduction float64    `yaml:"height_reduction" validate:"gte=0,lte=1"`
		WidthReduction  float64    `yaml:"width_reduction" validate:"gte=0,lte=1"`
	} `yaml:"shoulders"`

	Legs struct {
		Weights [2]float64 `yaml:"weights" validate:"dive,gte=0,lte=1"`
	} `yaml:"legs"`

	Arms struct {
		Weights          [2]float64 `yaml:"weights" validate:"dive,gte=0,lte=1"`
		HeightAdjustment float64    `yaml:"height_adjustment"`
	} `yaml:"arms"`

	Hands struct {
		Weights [2]float64 `yaml:"weights" validate:"dive,gte=0,lte=1"`
	} `yaml:"hands"`

	JointAdjustments []jointAdjustmentFile `yaml:"joint_adjustments" validate:"dive"`
	BoneAdjustments  []boneAdjustmentFile  `yaml:"bone_adjustments" validate:"dive"`
}

// jointAdjustmentFile は関節上書き設定のファイル表現を表す。
type jointAdjustmentFile struct {
	Joint                 string     `yaml:"joint" validate:"required"`
	DisablePosition       bool       `yaml:"disable_position"`
	DisableRotation       bool       `yaml:"disable_rotation"`
	RotationChangeDegrees [3]float64 `yaml:"rotation_change_degrees"`
}

// boneAdjustmentFile は編集済みボーン調整のファイル表現を表す。
type boneAdjustmentFile struct {
	MainJoint       string     `yaml:"main_joint" validate:"required"`
	RotationDegrees [3]float64 `yaml:"rotation_degrees"`
	Children        []string   `yaml:"children" validate:"max=3"`
	RestorePosition []bool     `yaml:"restore_position" validate:"max=3"`
}

// ConfigRepository はリターゲット設定YAMLの読み込み契約を表す。
type ConfigRepository struct{}

// NewConfigRepository はConfigRepositoryを生成する。
func NewConfigRepository() *ConfigRepository {
	return &ConfigRepository{}
}

// CanLoad は拡張子に応じて読み込み可否を判定する。
func (r *ConfigRepository) CanLoad(path string) bool {
	return canLoadYaml(path)
}

// InferName はパスから表示名を推定する。
func (r *ConfigRepository) InferName(path string) string {
	return inferName(path)
}

// Load はリターゲット設定を読み込み、検証済みの実行設定へ変換する。
func (r *ConfigRepository) Load(path string) (*RetargetSettings, error) {
	file := configFile{Weight: 1.0}
	if err := loadYamlFile(path, &file); err != nil {
		return nil, err
	}
	return buildSettings(&file)
}

// buildSettings はファイル表現を実行設定へ変換する。
func buildSettings(file *configFile) (*RetargetSettings, error) {
	settings := &RetargetSettings{
		Weight:                  file.Weight,
		UseProxy:                file.UseProxy,
		ApplyConstraintOffsets:  file.ApplyConstraintOffsets,
		ArrayCapacity:           -1,
		Mask:                    model.FullBodyMask(),
		SpineAlignmentWeights:   file.Spine.AlignmentWeights,
		ShoulderWeights:         file.Shoulders.Weights,
		ShoulderHeightReduction: file.Shoulders.HeightReduction,
		ShoulderWidthReduction:  file.Shoulders.WidthReduction,
		LegWeights:              file.Legs.Weights,
		ArmWeights:              file.Arms.Weights,
		ArmHeightAdjustment:     file.Arms.HeightAdjustment,
		HandWeights:             file.Hands.Weights,
	}
	if file.ArrayCapacity != nil {
		settings.ArrayCapacity = *file.ArrayCapacity
	}

	for _, name := range file.DisabledSections {
		section, ok := model.SectionByName(name)
		if !ok {
			return nil, fmt.Errorf("身体区分名が不正です: %s", name)
		}
		settings.Mask = settings.Mask.Without(section)
	}
	for _, name := range file.DisabledPositionSections {
		section, ok := model.SectionByName(name)
		if !ok {
			return nil, fmt.Errorf("身体区分名が不正です: %s", name)
		}
		settings.DisabledPositionSections = append(settings.DisabledPositionSections, section)
	}

	if file.Spine.Mode != "" {
		mode, ok := model.ParseSpineCorrectionMode(file.Spine.Mode)
		if !ok {
			return nil, fmt.Errorf("背骨補正モードが不正です: %s", file.Spine.Mode)
		}
		settings.SpineMode = mode
	}

	for _, entry := range file.JointAdjustments {
		joint, ok := model.JointIdByName(entry.Joint)
		if !ok {
			return nil, fmt.Errorf("関節名が不正です: %s", entry.Joint)
		}
		adjustment := model.NewJointAdjustment(joint)
		adjustment.DisablePosition = entry.DisablePosition
		adjustment.DisableRotation = entry.DisableRotation
		adjustment.RotationChange = mmath.NewQuaternionFromDegrees(
			entry.RotationChangeDegrees[0],
			entry.RotationChangeDegrees[1],
			entry.RotationChangeDegrees[2])
		settings.JointAdjustments = append(settings.JointAdjustments, adjustment)
	}

	for _, entry := range file.BoneAdjustments {
		main, ok := model.JointIdByName(entry.MainJoint)
		if !ok {
			return nil, fmt.Errorf("関節名が不正です: %s", entry.MainJoint)
		}
		bone := model.BoneAdjustmentEntry{
			MainJoint: main,
			RotationAdjustment: mmath.NewQuaternionFromDegrees(
				entry.RotationDegrees[0], entry.RotationDegrees[1], entry.RotationDegrees[2]),
		}
		for i, childName := range entry.Children {
			child, childOk := model.JointIdByName(childName)
			if !childOk {
				return nil, fmt.Errorf("関節名が不正です: %s", childName)
			}
			bone.Children = append(bone.Children, child)
			if i < len(entry.RestorePosition) {
				bone.RestorePositionFlags[i] = entry.RestorePosition[i]
			}
		}
		settings.BoneAdjustments = append(settings.BoneAdjustments, bone)
	}

	return settings, nil
}
