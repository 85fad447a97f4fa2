// Package toast sends feedback notifications to the browser.
//
// Handlers report outcomes through a Notifier:
//
//	func saveImage(n toast.Notifier, img *transform.Image) error {
//	    if err := store(img); err != nil {
//	        toast.Error(n, "Failed to save image")
//	        return err
//	    }
//	    toast.WithTitle(n, toast.TypeSuccess, "Image added", "Your transformation is in the library.")
//	    return nil
//	}
//
// Hub is the production Notifier. It keeps a set of WebSocket clients and
// fans every toast out to all of them as
//
//	{"event": "imaginify:toast", "detail": {"level": "success", "message": "..."}}
//
// A client whose send buffer is full is disconnected rather than allowed
// to stall the others. The page script re-dispatches the message as a
// CustomEvent:
//
//	ws.onmessage = (m) => {
//	    const { event, detail } = JSON.parse(m.data);
//	    window.dispatchEvent(new CustomEvent(event, { detail }));
//	};
package toast
