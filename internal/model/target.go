package model

// TargetKind 互动目标类型（帖子 / 评论 / 用户）
type TargetKind string

const (
	TargetPost    TargetKind = "post"
	TargetComment TargetKind = "comment"
	TargetUser    TargetKind = "user"
)

func (k TargetKind) Valid() bool {
	switch k {
	case TargetPost, TargetComment, TargetUser:
		return true
	}
	return false
}

// TargetRef 目标引用：显式 tagged union，替代松散的 kind 字符串散落各处
type TargetRef struct {
	Kind TargetKind `json:"kind"`
	ID   string     `json:"id"`
}

func (r TargetRef) Valid() bool { return r.Kind.Valid() && r.ID != "" }
