package db

import "errors"

// Domain-level database error sentinels.
var (
	ErrUserNotFound = errors.New("user not found")

	ErrCategoryNotFound  = errors.New("category not found")
	ErrDuplicateCategory = errors.New("category already exists")

	ErrLectureNotFound  = errors.New("lecture not found")
	ErrDocumentNotFound = errors.New("document not found")

	ErrCollectionNotFound     = errors.New("collection not found")
	ErrCollectionItemNotFound = errors.New("item not found in collection")

	ErrQuestionNotFound = errors.New("question not found")
	ErrAnswerNotFound   = errors.New("answer not found")

	ErrSavedItemNotFound = errors.New("saved item not found")
	ErrAlreadySaved      = errors.New("item already saved")

	ErrShareNotFound  = errors.New("share not found")
	ErrDuplicateShare = errors.New("content already shared with this user")

	ErrReportNotFound = errors.New("report not found")

	ErrKeywordNotFound = errors.New("keyword not found")
)
