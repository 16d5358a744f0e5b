package util

type Envelope map[string]any

func Error(message string) Envelope {
	return Envelope{"success": false, "message": message}
}

// Success builds the standard success body; extra keys are merged in.
func Success(message string, extra Envelope) Envelope {
	out := Envelope{"success": true, "message": message}
	for k, v := range extra {
		out[k] = v
	}
	return out
}

func Data(key string, value any) Envelope {
	return Envelope{key: value}
}
