package service

// ToggleResult toggle 类操作的显式结果，便于测试断言与前端展示
type ToggleResult string

const (
	ResultCreated   ToggleResult = "created"
	ResultRemoved   ToggleResult = "removed"
	ResultReplaced  ToggleResult = "replaced"
	ResultBlocked   ToggleResult = "blocked"
	ResultUnblocked ToggleResult = "unblocked"
)
