package errors

import stderrors "errors"

// Error message constants for the codemerge application
const (
	// File processing errors
	ErrMsgFailedToReadFile   = "failed to read file"
	ErrMsgFailedToMergeFiles = "failed to merge files"
	ErrMsgFailedToWriteFile  = "failed to write output"

	// Directory processing errors
	ErrMsgFailedToCheckPath         = "failed to check path"
	ErrMsgFailedToFindSourceFiles   = "failed to find source files in directory"
	ErrMsgFailedToPrepareOutputPath = "failed to prepare output path"

	// Configuration errors
	ErrMsgFailedToLoadConfig = "failed to load config"

	// Info/warning messages
	WarnMsgMaxDepthReached    = "directory is too deep, max recursion depth reached; files will be skipped"
	WarnMsgFileTooLarge       = "file exceeds max file size and will be skipped"
	WarnMsgNoNamespace        = "file declares no namespace; its content is not merged"
	InfoMsgCollectingFiles    = "getting all source files"
	InfoMsgFoundSourceFiles   = "done getting source files"
	InfoMsgMergingFiles       = "merging all file contents into one"
	InfoMsgDoneMerging        = "done merging file contents"
	InfoMsgWritingOutput      = "writing output to file"
	InfoMsgMergeCompleted     = "merge completed"
	InfoMsgWatching           = "watching for changes"
	InfoMsgChangeDetected     = "change detected, merging again"
	InfoMsgDryRunOutputHeader = "dry run, output is not written"
)

// Sentinel errors, checked with errors.Is.
var (
	// ErrRead indicates a source file is missing or unreadable.
	ErrRead = stderrors.New("read error")
	// ErrInvalidPlacement indicates an unrecognized import placement policy.
	ErrInvalidPlacement = stderrors.New("invalid import placement")
	// ErrInvalidIndentSize indicates a non-positive indent size.
	ErrInvalidIndentSize = stderrors.New("indent size must be positive")
	// ErrInvalidBraceStyle indicates an unrecognized namespace brace style.
	ErrInvalidBraceStyle = stderrors.New("invalid brace style")
	// ErrUnsupportedLanguage indicates no merger is registered for a language.
	ErrUnsupportedLanguage = stderrors.New("language is not supported")
	// ErrMissingDirectory indicates no source directory was provided.
	ErrMissingDirectory = stderrors.New("source directory is required")
	// ErrNoSourceFiles indicates the directory contains no files to merge.
	ErrNoSourceFiles = stderrors.New("no source files found")
	// ErrInvalidMaxDepth indicates a non-positive recursion depth.
	ErrInvalidMaxDepth = stderrors.New("max depth must be positive")
	// ErrInvalidReportFormat indicates an unknown report format.
	ErrInvalidReportFormat = stderrors.New("invalid report format")
)
