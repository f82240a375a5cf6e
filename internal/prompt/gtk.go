//go:build gtk

package prompt

import (
	"runtime"

	"github.com/gotk3/gotk3/glib"
	"github.com/gotk3/gotk3/gtk"
)

// GTK shows modal message dialogs. GTK runs on its own locked OS thread and
// every call is posted to it with glib.IdleAdd.
type GTK struct {
	done chan struct{}
}

func newGTK() (Prompt, error) {
	ready := make(chan struct{})
	g := &GTK{done: make(chan struct{})}

	go func() {
		runtime.LockOSThread()
		defer close(g.done)

		gtk.Init(nil)
		close(ready)
		gtk.Main()
	}()

	<-ready
	return g, nil
}

func (g *GTK) Confirm(question string) bool {
	answer := make(chan bool, 1)
	glib.IdleAdd(func() {
		dlg := gtk.MessageDialogNew(nil, gtk.DIALOG_MODAL, gtk.MESSAGE_QUESTION, gtk.BUTTONS_YES_NO, "%s", question)
		dlg.SetTitle("Confirmation")
		resp := dlg.Run()
		dlg.Destroy()
		answer <- resp == gtk.RESPONSE_YES
	})
	return <-answer
}

func (g *GTK) NotifyError(message string) {
	shown := make(chan struct{})
	glib.IdleAdd(func() {
		dlg := gtk.MessageDialogNew(nil, gtk.DIALOG_MODAL, gtk.MESSAGE_ERROR, gtk.BUTTONS_OK, "%s", message)
		dlg.SetTitle("Error")
		dlg.Run()
		dlg.Destroy()
		close(shown)
	})
	<-shown
}

func (g *GTK) Close() error {
	glib.IdleAdd(gtk.MainQuit)
	<-g.done
	return nil
}
