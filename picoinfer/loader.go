package picoinfer

// LoadResult is a ready-to-run model with its paired tokenizer. Device
// reports which device was actually selected so callers can log it.
type LoadResult struct {
	Model     Model
	Tokenizer Tokenizer
	Device    Device

	// WeightsFingerprint identifies the weights artifact (xxhash64 of its
	// bytes). Zero when the backend does not compute one.
	WeightsFingerprint uint64
}

// Close releases the loaded model, and the tokenizer when it holds
// resources of its own.
func (r *LoadResult) Close() error {
	var err error
	if c, ok := r.Tokenizer.(interface{ Close() error }); ok {
		err = c.Close()
	}
	if r.Model != nil {
		if merr := r.Model.Close(); merr != nil {
			err = merr
		}
	}
	return err
}

// Loader loads a checkpoint directory into a runnable model and
// tokenizer. Implementations must not leave partial state behind on
// failure; malformed artifacts yield an error wrapping ErrLoad.
type Loader interface {
	Load(dir string, device Device) (*LoadResult, error)
}

// ResolveDevice is the device auto-selection rule: a pure function of
// the requested device and the capability probe result.
func ResolveDevice(requested Device, gpuAvailable bool) Device {
	if requested != DeviceAuto {
		return requested
	}
	if gpuAvailable {
		return DeviceGPU
	}
	return DeviceCPU
}
