package bot

import "strings"

// Callback data is "m:<verb>" or "m:<verb>:<arg>". The arg is at most one
// id; the session cursor supplies the rest of the path, which keeps every
// payload well under Telegram's 64 byte limit.
const callbackPrefix = "m:"

const (
	verbHome        = "home"
	verbDay         = "day"
	verbAddDay      = "addday"
	verbRemoveDay   = "rmday"
	verbAddShift    = "shift"
	verbOpenShift   = "open"
	verbAddVariant  = "addvar"
	verbOpenVariant = "var"
	verbDishName    = "name"
	verbPrice       = "price"
	verbImage       = "img"
	verbClearImage  = "noimg"
	verbItem        = "item"
	verbAddItem     = "additem"
	verbRemoveItem  = "rmitem"
	verbUp          = "up"
	verbUndo        = "undo"
	verbRedo        = "redo"
	verbPublish     = "publish"
	verbDiscard     = "discard"
)

var knownVerbs = map[string]bool{
	verbHome: true, verbDay: true, verbAddDay: true, verbRemoveDay: true,
	verbAddShift: true, verbOpenShift: true, verbAddVariant: true, verbOpenVariant: true,
	verbDishName: true, verbPrice: true, verbImage: true, verbClearImage: true,
	verbItem: true, verbAddItem: true, verbRemoveItem: true, verbUp: true,
	verbUndo: true, verbRedo: true, verbPublish: true, verbDiscard: true,
}

type callback struct {
	verb string
	arg  string
}

func (c callback) String() string {
	if c.arg == "" {
		return callbackPrefix + c.verb
	}
	return callbackPrefix + c.verb + ":" + c.arg
}

func parseCallback(data string) (callback, bool) {
	rest, ok := strings.CutPrefix(data, callbackPrefix)
	if !ok {
		return callback{}, false
	}
	verb, arg, _ := strings.Cut(rest, ":")
	if !knownVerbs[verb] {
		return callback{}, false
	}
	return callback{verb: verb, arg: arg}, true
}

// commandCallbacks maps slash commands onto the callback they stand for.
var commandCallbacks = map[string]callback{
	"/undo":    {verb: verbUndo},
	"/redo":    {verb: verbRedo},
	"/publish": {verb: verbPublish},
	"/discard": {verb: verbDiscard},
}
