package apperr

import (
	"errors"
	"fmt"
	"strconv"
)

// Code is the status handed to front ends. Values and names are part of the
// contract with existing front ends, which compare against the names.
type Code int

const (
	UnknownError Code = iota - 1
	NoError
	MutexPoisonedError
	JSONSerializeError
	CStringNullError
	MarshalJSONNullError
	DeserializeArgumentNullError
	DeserializeJSONError
	DeserializeNotSupportedError
	TauriWindowCreationError
	TauriWindowShowError
	RustWriteFileError
	MarshalSavePathNullError
	StorageNullError
	CSharpWriteError
	JSONDeserializeImporterError
	FailedToCreateStdOutFileError
	FailedToCreateStdErrFileError
	LibcDup2StdOutError
	LibcDup2StdErrError
	CSharpPDFSavePathIsEmpty
	ChromeDownloadError
	ChromiumBinaryIsUnexpectedlyNone
	BrowserCouldNotBeBuild
	NewTabCouldNotBeCreated
	NavigationToGeneratedHTMLFileFailed
	WaitingForNavigationFailed
	PDFGenerationInChromiumFailed
	WritingPDFDataToDiskFailed
	RemovalOfTemporaryGeneratedFilesFailed
	SMTPConnectionError
	MessageSendError
	TauriExistingWindowNotFoundError
	WaitingForWindowsPDFResult
	InvalidExportPathError
)

var codeNames = [...]string{
	"UnknownError",
	"NoError",
	"MutexPoisonedError",
	"JSONSerializeError",
	"CStringNullError",
	"MarshalJSONNullError",
	"DeserializeArgumentNullError",
	"DeserializeJSONError",
	"DeserializeNotSupportedError",
	"TauriWindowCreationError",
	"TauriWindowShowError",
	"RustWriteFileError",
	"MarshalSavePathNullError",
	"StorageNullError",
	"CSharpWriteError",
	"JSONDeserializeImporterError",
	"FailedToCreateStdOutFileError",
	"FailedToCreateStdErrFileError",
	"LibcDup2StdOutError",
	"LibcDup2StdErrError",
	"CSharpPDFSavePathIsEmpty",
	"ChromeDownloadError",
	"ChromiumBinaryIsUnexpectedlyNone",
	"BrowserCouldNotBeBuild",
	"NewTabCouldNotBeCreated",
	"NavigationToGeneratedHTMLFileFailed",
	"WaitingForNavigationFailed",
	"PDFGenerationInChromiumFailed",
	"WritingPDFDataToDiskFailed",
	"RemovalOfTemporaryGeneratedFilesFailed",
	"SMTPConnectionError",
	"MessageSendError",
	"TauriExistingWindowNotFoundError",
	"WaitingForWindowsPDFResult",
	"InvalidExportPathError",
}

func (c Code) known() bool {
	return c >= UnknownError && int(c+1) < len(codeNames)
}

// String returns the front-end name of the code. Codes outside the table
// (for example statuses passed through from the document writer) render as
// Code(n).
func (c Code) String() string {
	if !c.known() {
		return "Code(" + strconv.Itoa(int(c)) + ")"
	}
	return codeNames[c+1]
}

// MarshalText encodes the code by name so JSON payloads stay readable by
// front ends that switch on the name.
func (c Code) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalText accepts either a code name or its decimal value.
func (c *Code) UnmarshalText(text []byte) error {
	parsed, ok := ParseCode(string(text))
	if !ok {
		return fmt.Errorf("unknown application error code %q", text)
	}
	*c = parsed
	return nil
}

// ParseCode resolves a code name or decimal value.
func ParseCode(s string) (Code, bool) {
	for i, name := range codeNames {
		if name == s {
			return Code(i - 1), true
		}
	}
	if n, err := strconv.Atoi(s); err == nil {
		return Code(n), true
	}
	return UnknownError, false
}

// Kind groups codes into the broad failure classes callers branch on.
type Kind int

const (
	KindNone Kind = iota
	KindConcurrency
	KindSerialization
	KindExternalCall
	KindIO
	KindWindow
	KindUnknown
)

func (k Kind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindConcurrency:
		return "concurrency"
	case KindSerialization:
		return "serialization"
	case KindExternalCall:
		return "external-call"
	case KindIO:
		return "io"
	case KindWindow:
		return "window"
	default:
		return "unknown"
	}
}

// Kind reports the failure class of the code.
func (c Code) Kind() Kind {
	switch c {
	case NoError:
		return KindNone
	case MutexPoisonedError:
		return KindConcurrency
	case JSONSerializeError, CStringNullError, MarshalJSONNullError,
		DeserializeArgumentNullError, DeserializeJSONError, DeserializeNotSupportedError,
		MarshalSavePathNullError, StorageNullError, JSONDeserializeImporterError:
		return KindSerialization
	case CSharpWriteError, CSharpPDFSavePathIsEmpty, ChromeDownloadError,
		ChromiumBinaryIsUnexpectedlyNone, BrowserCouldNotBeBuild, NewTabCouldNotBeCreated,
		NavigationToGeneratedHTMLFileFailed, WaitingForNavigationFailed,
		PDFGenerationInChromiumFailed, SMTPConnectionError, MessageSendError,
		WaitingForWindowsPDFResult:
		return KindExternalCall
	case RustWriteFileError, FailedToCreateStdOutFileError, FailedToCreateStdErrFileError,
		LibcDup2StdOutError, LibcDup2StdErrError, WritingPDFDataToDiskFailed,
		RemovalOfTemporaryGeneratedFilesFailed, InvalidExportPathError:
		return KindIO
	case TauriWindowCreationError, TauriWindowShowError, TauriExistingWindowNotFoundError:
		return KindWindow
	default:
		return KindUnknown
	}
}

// Error attaches a Code and the failing operation to an underlying error.
type Error struct {
	Code Code
	Op   string
	Err  error
}

func (e *Error) Error() string {
	msg := e.Code.String()
	if e.Op != "" {
		msg = e.Op + ": " + msg
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New returns an *Error for code. err may be nil.
func New(code Code, op string, err error) error {
	return &Error{Code: code, Op: op, Err: err}
}

// CodeOf extracts the outermost Code from err. A nil error is NoError and an
// error without a Code is UnknownError.
func CodeOf(err error) Code {
	if err == nil {
		return NoError
	}
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return UnknownError
}

// Is reports whether err carries code anywhere in its chain.
func Is(err error, code Code) bool {
	if err == nil {
		return code == NoError
	}
	for err != nil {
		var appErr *Error
		if !errors.As(err, &appErr) {
			return false
		}
		if appErr.Code == code {
			return true
		}
		err = appErr.Err
	}
	return false
}
