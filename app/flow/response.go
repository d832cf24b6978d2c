package flow

// OutputKind selects how the transport renders an Output.
type OutputKind int

const (
	// OutputMessage sends a new message.
	OutputMessage OutputKind = iota + 1
	// OutputEdit replaces the text of the message the callback came from.
	OutputEdit
	// OutputNotice answers a callback with a short toast.
	OutputNotice
	// OutputFile sends a document.
	OutputFile
)

// Keyboard names a fixed keyboard layout rendered by the transport.
type Keyboard int

const (
	KeyboardNone Keyboard = iota
	KeyboardUserMain
	KeyboardRemove
	KeyboardContact
	KeyboardAdminMain
	KeyboardReview
)

// File describes a document to send.
type File struct {
	Path    string
	Name    string
	Caption string
	// Remove asks the transport to delete Path once the file is sent.
	Remove bool
}

// Output is one rendering instruction.
type Output struct {
	Kind     OutputKind
	Text     string
	Keyboard Keyboard
	File     *File
}

// Response is the ordered list of outputs produced by one event.
type Response []Output

func message(text string, kb Keyboard) Output {
	return Output{Kind: OutputMessage, Text: text, Keyboard: kb}
}

func edit(text string, kb Keyboard) Output {
	return Output{Kind: OutputEdit, Text: text, Keyboard: kb}
}

func notice(text string) Output {
	return Output{Kind: OutputNotice, Text: text}
}

func file(f File) Output {
	return Output{Kind: OutputFile, File: &f}
}

func reply(outs ...Output) Response {
	return Response(outs)
}
