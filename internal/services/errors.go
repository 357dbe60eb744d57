package services

import "errors"

// 错误类别，handler 根据类别映射 HTTP 状态码
var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrForbidden    = errors.New("forbidden")
	ErrInternal     = errors.New("internal error")
)

// Error 业务错误，Message 直接作为响应体返回给客户端
type Error struct {
	Kind    error
	Message string
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.Kind }

func newError(kind error, msg string) *Error {
	return &Error{Kind: kind, Message: msg}
}

var (
	ErrUsernameRequired  = newError(ErrInvalidInput, "Username is required")
	ErrUserIDRequired    = newError(ErrInvalidInput, "User ID is required")
	ErrOwnerIDRequired   = newError(ErrInvalidInput, "Owner ID is required")
	ErrRemoveIDRequired  = newError(ErrInvalidInput, "User ID to remove is required")
	ErrGroupIDRequired   = newError(ErrInvalidInput, "Group ID is required")
	ErrGroupNameRequired = newError(ErrInvalidInput, "Group name is required")
	ErrContentRequired   = newError(ErrInvalidInput, "Message content is required")

	ErrUserNotFound       = newError(ErrNotFound, "User not found")
	ErrOwnerNotFound      = newError(ErrNotFound, "Owner user not found")
	ErrTargetUserNotFound = newError(ErrNotFound, "User to remove not found")
	ErrGroupNotFound      = newError(ErrNotFound, "Group not found")
	ErrTargetNotMember    = newError(ErrNotFound, "User is not a member of this group")

	ErrUsernameTaken  = newError(ErrConflict, "Username already taken")
	ErrGroupNameTaken = newError(ErrConflict, "Group name already taken")

	ErrNotMember         = newError(ErrForbidden, "User is not a member of this group")
	ErrNotOwnerRemove    = newError(ErrForbidden, "Only the group owner can remove users")
	ErrNotOwnerDelete    = newError(ErrForbidden, "Only the group owner can delete the group")
	ErrCannotRemoveOwner = newError(ErrForbidden, "Cannot remove the group owner from the group")

	ErrGroupDeleteFailed  = newError(ErrInternal, "Failed to delete group")
	ErrMemberRemoveFailed = newError(ErrInternal, "Failed to remove user from group")
)
