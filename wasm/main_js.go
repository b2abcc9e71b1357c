//go:build js && wasm

package main

import (
	"syscall/js"

	"github.com/voxelsplace/pixelart/api"
)

func bytesFromJS(v js.Value) []byte {
	buf := make([]byte, v.Get("length").Int())
	js.CopyBytesToGo(buf, v)
	return buf
}

func bytesToJS(b []byte) js.Value {
	arr := js.Global().Get("Uint8Array").New(len(b))
	js.CopyBytesToJS(arr, b)
	return arr
}

func requestFromJS(v js.Value) api.Request {
	req := api.Request{MaintainAspectRatio: true}
	if v.IsUndefined() || v.IsNull() {
		return req
	}
	num := func(name string) int {
		if f := v.Get(name); f.Type() == js.TypeNumber {
			return f.Int()
		}
		return 0
	}
	flag := func(name string, def bool) bool {
		if f := v.Get(name); f.Type() == js.TypeBoolean {
			return f.Bool()
		}
		return def
	}
	str := func(name string) string {
		if f := v.Get(name); f.Type() == js.TypeString {
			return f.String()
		}
		return ""
	}
	req.Width = num("width")
	req.Height = num("height")
	req.MaintainAspectRatio = flag("maintainAspectRatio", true)
	req.Crop = flag("crop", false)
	req.Shaded = flag("shaded", false)
	req.Fill = str("fill")
	req.Version = str("version")
	return req
}

func responseToJS(res *api.Response) js.Value {
	obj := js.Global().Get("Object").New()
	obj.Set("width", res.Width)
	obj.Set("height", res.Height)
	obj.Set("blocks", res.Blocks)
	obj.Set("preview", bytesToJS(res.Preview))
	obj.Set("schem", bytesToJS(res.Structure))
	return obj
}

func convertImage(this js.Value, args []js.Value) any {
	if len(args) < 1 {
		return js.ValueOf("missing image bytes")
	}
	var opts js.Value
	if len(args) > 1 {
		opts = args[1]
	}
	res, err := api.ConvertBytes(bytesFromJS(args[0]), requestFromJS(opts))
	if err != nil {
		return js.ValueOf(err.Error())
	}
	return responseToJS(res)
}

func convertImages(this js.Value, args []js.Value) any {
	if len(args) < 1 {
		return js.ValueOf("missing files object")
	}
	filesObj := args[0]
	files := map[string][]byte{}
	keys := js.Global().Get("Object").Call("keys", filesObj)
	for i := 0; i < keys.Length(); i++ {
		k := keys.Index(i).String()
		files[k] = bytesFromJS(filesObj.Get(k))
	}
	var opts js.Value
	if len(args) > 1 {
		opts = args[1]
	}
	out, err := api.ConvertMany(files, requestFromJS(opts))
	if err != nil {
		return js.ValueOf(err.Error())
	}
	result := js.Global().Get("Object").New()
	for name, res := range out {
		result.Set(name, responseToJS(res))
	}
	return result
}

func schem2glb(this js.Value, args []js.Value) any {
	if len(args) < 1 {
		return js.ValueOf("missing schem bytes")
	}
	out, err := api.SchemToGLB(bytesFromJS(args[0]))
	if err != nil {
		return js.ValueOf(err.Error())
	}
	return bytesToJS(out)
}

func paletteSwatch(this js.Value, args []js.Value) any {
	kind, tile := "compact", 16
	if len(args) > 0 {
		kind = args[0].String()
	}
	if len(args) > 1 {
		tile = args[1].Int()
	}
	out, err := api.PaletteSwatchPNG(kind, tile)
	if err != nil {
		return js.ValueOf(err.Error())
	}
	return bytesToJS(out)
}

func main() {
	js.Global().Set("convertImage", js.FuncOf(convertImage))
	js.Global().Set("convertImages", js.FuncOf(convertImages))
	js.Global().Set("schem2glb", js.FuncOf(schem2glb))
	js.Global().Set("paletteSwatch", js.FuncOf(paletteSwatch))
	select {}
}
