// 指示: miu200521358
package model

// BodySection は補正対象の粗い身体区分を表す。
type BodySection int

const (
	SECTION_SPINE BodySection = iota
	SECTION_HEAD
	SECTION_LEFT_ARM
	SECTION_RIGHT_ARM
	SECTION_LEFT_LEG
	SECTION_RIGHT_LEG

	SECTION_COUNT
)

// sectionNames はBodySectionから表示名への対応を保持する。
var sectionNames = [SECTION_COUNT]string{
	"Spine", "Head", "LeftArm", "RightArm", "LeftLeg", "RightLeg",
}

// String は身体区分の表示名を返す。
func (s BodySection) String() string {
	if s < 0 || s >= SECTION_COUNT {
		return "Unknown"
	}
	return sectionNames[s]
}

// SectionByName は表示名からBodySectionを引く。
func SectionByName(name string) (BodySection, bool) {
	for section := BodySection(0); section < SECTION_COUNT; section++ {
		if sectionNames[section] == name {
			return section, true
		}
	}
	return 0, false
}

// jointSections はJointIdから身体区分への対応を保持する。
var jointSections = [JOINT_ID_COUNT]BodySection{
	HIPS: SECTION_SPINE, SPINE: SECTION_SPINE, CHEST: SECTION_SPINE, UPPER_CHEST: SECTION_SPINE,
	NECK: SECTION_HEAD, HEAD: SECTION_HEAD,
	LEFT_SHOULDER: SECTION_LEFT_ARM, LEFT_UPPER_ARM: SECTION_LEFT_ARM,
	LEFT_LOWER_ARM: SECTION_LEFT_ARM, LEFT_HAND: SECTION_LEFT_ARM,
	RIGHT_SHOULDER: SECTION_RIGHT_ARM, RIGHT_UPPER_ARM: SECTION_RIGHT_ARM,
	RIGHT_LOWER_ARM: SECTION_RIGHT_ARM, RIGHT_HAND: SECTION_RIGHT_ARM,
	LEFT_UPPER_LEG: SECTION_LEFT_LEG, LEFT_LOWER_LEG: SECTION_LEFT_LEG,
	LEFT_FOOT: SECTION_LEFT_LEG, LEFT_TOES: SECTION_LEFT_LEG,
	RIGHT_UPPER_LEG: SECTION_RIGHT_LEG, RIGHT_LOWER_LEG: SECTION_RIGHT_LEG,
	RIGHT_FOOT: SECTION_RIGHT_LEG, RIGHT_TOES: SECTION_RIGHT_LEG,
}

// SectionOfJoint は関節の属する身体区分を返す。
func SectionOfJoint(joint JointId) BodySection {
	return jointSections[joint]
}

// BodyPartMask は身体区分ごとの補正有効フラグ集合を表す。
type BodyPartMask uint32

// FullBodyMask は全区分を有効にしたマスクを返す。
func FullBodyMask() BodyPartMask {
	mask := BodyPartMask(0)
	for section := BodySection(0); section < SECTION_COUNT; section++ {
		mask |= 1 << uint(section)
	}
	return mask
}

// IsEnabled は身体区分が有効か判定する。
func (m BodyPartMask) IsEnabled(section BodySection) bool {
	return m&(1<<uint(section)) != 0
}

// With は身体区分を有効にしたマスクを返す。
func (m BodyPartMask) With(section BodySection) BodyPartMask {
	return m | (1 << uint(section))
}

// Without は身体区分を無効にしたマスクを返す。
func (m BodyPartMask) Without(section BodySection) BodyPartMask {
	return m &^ (1 << uint(section))
}
