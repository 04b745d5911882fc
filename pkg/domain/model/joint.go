// 指示: miu200521358
package model

// JointId はヒューマノイド関節スロットの固定識別子を表す。
// 親関節の値は必ず子関節より小さい。
type JointId int

const (
	HIPS JointId = iota
	SPINE
	CHEST
	UPPER_CHEST
	NECK
	HEAD
	LEFT_SHOULDER
	RIGHT_SHOULDER
	LEFT_UPPER_ARM
	RIGHT_UPPER_ARM
	LEFT_LOWER_ARM
	RIGHT_LOWER_ARM
	LEFT_HAND
	RIGHT_HAND
	LEFT_UPPER_LEG
	RIGHT_UPPER_LEG
	LEFT_LOWER_LEG
	RIGHT_LOWER_LEG
	LEFT_FOOT
	RIGHT_FOOT
	LEFT_TOES
	RIGHT_TOES

	JOINT_ID_COUNT
)

// jointNames はJointIdから表示名への対応を保持する。
var jointNames = [JOINT_ID_COUNT]string{
	"Hips", "Spine", "Chest", "UpperChest", "Neck", "Head",
	"LeftShoulder", "RightShoulder",
	"LeftUpperArm", "RightUpperArm",
	"LeftLowerArm", "RightLowerArm",
	"LeftHand", "RightHand",
	"LeftUpperLeg", "RightUpperLeg",
	"LeftLowerLeg", "RightLowerLeg",
	"LeftFoot", "RightFoot",
	"LeftToes", "RightToes",
}

// String は関節の表示名を返す。
func (j JointId) String() string {
	if j < 0 || j >= JOINT_ID_COUNT {
		return "Unknown"
	}
	return jointNames[j]
}

// IsValid は有効な関節識別子か判定する。
func (j JointId) IsValid() bool {
	return j >= 0 && j < JOINT_ID_COUNT
}

// DirectionalJoint は左右対の関節を表す。
type DirectionalJoint struct {
	left  JointId
	right JointId
}

// Left は左側の関節を返す。
func (d DirectionalJoint) Left() JointId {
	return d.left
}

// Right は右側の関節を返す。
func (d DirectionalJoint) Right() JointId {
	return d.right
}

// Both は左右の関節を返す。
func (d DirectionalJoint) Both() [2]JointId {
	return [2]JointId{d.left, d.right}
}

var (
	SHOULDER  = DirectionalJoint{left: LEFT_SHOULDER, right: RIGHT_SHOULDER}
	UPPER_ARM = DirectionalJoint{left: LEFT_UPPER_ARM, right: RIGHT_UPPER_ARM}
	LOWER_ARM = DirectionalJoint{left: LEFT_LOWER_ARM, right: RIGHT_LOWER_ARM}
	HAND      = DirectionalJoint{left: LEFT_HAND, right: RIGHT_HAND}
	UPPER_LEG = DirectionalJoint{left: LEFT_UPPER_LEG, right: RIGHT_UPPER_LEG}
	LOWER_LEG = DirectionalJoint{left: LEFT_LOWER_LEG, right: RIGHT_LOWER_LEG}
	FOOT      = DirectionalJoint{left: LEFT_FOOT, right: RIGHT_FOOT}
	TOES      = DirectionalJoint{left: LEFT_TOES, right: RIGHT_TOES}
)

// standardParents は標準ヒューマノイド階層の親関節を保持する。
var standardParents = map[JointId]JointId{
	SPINE:           HIPS,
	CHEST:           SPINE,
	UPPER_CHEST:     CHEST,
	NECK:            UPPER_CHEST,
	HEAD:            NECK,
	LEFT_SHOULDER:   UPPER_CHEST,
	RIGHT_SHOULDER:  UPPER_CHEST,
	LEFT_UPPER_ARM:  LEFT_SHOULDER,
	RIGHT_UPPER_ARM: RIGHT_SHOULDER,
	LEFT_LOWER_ARM:  LEFT_UPPER_ARM,
	RIGHT_LOWER_ARM: RIGHT_UPPER_ARM,
	LEFT_HAND:       LEFT_LOWER_ARM,
	RIGHT_HAND:      RIGHT_LOWER_ARM,
	LEFT_UPPER_LEG:  HIPS,
	RIGHT_UPPER_LEG: HIPS,
	LEFT_LOWER_LEG:  LEFT_UPPER_LEG,
	RIGHT_LOWER_LEG: RIGHT_UPPER_LEG,
	LEFT_FOOT:       LEFT_LOWER_LEG,
	RIGHT_FOOT:      RIGHT_LOWER_LEG,
	LEFT_TOES:       LEFT_FOOT,
	RIGHT_TOES:      RIGHT_FOOT,
}

// StandardParent は標準ヒューマノイド階層の親関節を返す。ルート関節はfalseを返す。
func StandardParent(joint JointId) (JointId, bool) {
	parent, ok := standardParents[joint]
	return parent, ok
}

// JointIdByName は表示名からJointIdを引く。
func JointIdByName(name string) (JointId, bool) {
	for id := JointId(0); id < JOINT_ID_COUNT; id++ {
		if jointNames[id] == name {
			return id, true
		}
	}
	return 0, false
}
