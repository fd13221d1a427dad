// Package session runs the interactive form in the terminal. It walks the
// scenario inputs, prompts through a PromptDriver (survey by default) and
// hands every answer to an Editor, which owns the document.
package session
