package aligner

// Code is the sentinel error code carried in every Result. Zero means
// success; the negative values are stable across the record layout.
type Code int32

const (
	Success           Code = 0
	InvalidInput      Code = -1
	InsufficientData  Code = -2
	ProcessingFailed  Code = -3
	OutOfMemory       Code = -4
	UnsupportedFormat Code = -5
)

// Description returns a human-readable description of the code.
func (c Code) Description() string {
	switch c {
	case Success:
		return "Operation completed successfully"
	case InvalidInput:
		return "Invalid input parameters provided"
	case InsufficientData:
		return "Insufficient audio data for reliable synchronization"
	case ProcessingFailed:
		return "Audio processing failed during synchronization"
	case OutOfMemory:
		return "Insufficient memory to complete operation"
	case UnsupportedFormat:
		return "Unsupported audio format or configuration"
	default:
		return "Unknown error occurred"
	}
}
