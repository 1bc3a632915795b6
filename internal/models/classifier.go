package models

import (
	"github.com/dustin/go-humanize"
	"github.com/pkg/errors"
	"k8s.io/klog/v2"

	"github.com/spikenet-ml/spikenet/internal/nn"
	"github.com/spikenet-ml/spikenet/internal/snn"
	"github.com/spikenet-ml/spikenet/internal/tensor"
)

// Classifier is a spiking backbone with a rate-coded readout: spike
// outputs are averaged over the presented time steps, pooled to a single
// spatial position and projected to class logits.
type Classifier[B tensor.Backend] struct {
	backend    B
	model      *snn.ModelGen[B]
	pool       *nn.AdaptiveAvgPool2D[B]
	fc         *nn.Linear[B]
	numClasses int
}

// NewClassifier compiles backbone and attaches a linear head with
// numClasses outputs.
func NewClassifier[B tensor.Backend](backend B, inChannels, numClasses int, backbone snn.ListGen[B]) (*Classifier[B], error) {
	if numClasses <= 0 {
		return nil, errors.Errorf("classifier: class count must be positive, got %d", numClasses)
	}
	model, err := snn.NewModelGen(backend, inChannels, backbone)
	if err != nil {
		return nil, errors.Wrap(err, "classifier backbone")
	}
	c := &Classifier[B]{
		backend:    backend,
		model:      model,
		pool:       nn.NewAdaptiveAvgPool2D(1, 1, backend),
		fc:         nn.NewLinear[B](model.OutChannels(), numClasses, backend),
		numClasses: numClasses,
	}
	klog.V(1).Infof("classifier: %d -> %d channels, %d classes, %s parameters",
		inChannels, model.OutChannels(), numClasses, humanize.Comma(int64(NumParameters[B](c))))
	return c, nil
}

// Logits presents the input sequence to the backbone, averages the spike
// outputs into a firing rate and projects it to one logit per class. The
// result has shape [batch, classes].
func (c *Classifier[B]) Logits(xs []*tensor.Tensor[B]) *tensor.Tensor[B] {
	if len(xs) == 0 {
		panic("classifier: empty input sequence")
	}
	outs := c.model.ForwardSequence(xs)

	rate := outs[0]
	for _, out := range outs[1:] {
		rate = rate.Add(out)
	}
	rate = rate.MulScalar(1 / float32(len(outs)))

	pooled := c.pool.Forward(rate)
	batch := pooled.Shape()[0]
	flat := pooled.Reshape(batch, c.model.OutChannels())
	return c.fc.Forward(flat)
}

// Predict returns class probabilities, softmax over Logits.
func (c *Classifier[B]) Predict(xs []*tensor.Tensor[B]) *tensor.Tensor[B] {
	return c.Logits(xs).Softmax(1)
}

// NumClasses returns the size of the output layer.
func (c *Classifier[B]) NumClasses() int {
	return c.numClasses
}

// Backbone exposes the compiled spiking backbone.
func (c *Classifier[B]) Backbone() *snn.ModelGen[B] {
	return c.model
}

// Parameters returns backbone parameters followed by head parameters.
func (c *Classifier[B]) Parameters() []*nn.Parameter[B] {
	return append(c.model.Parameters(), c.fc.Parameters()...)
}

// StateDict returns all parameters, head keys under "fc.".
func (c *Classifier[B]) StateDict() map[string]*tensor.RawTensor {
	stateDict := c.model.StateDict()
	for name, raw := range c.fc.StateDict() {
		stateDict["fc."+name] = raw
	}
	return stateDict
}

// LoadStateDict loads parameters saved from an identically shaped classifier.
func (c *Classifier[B]) LoadStateDict(stateDict map[string]*tensor.RawTensor) error {
	head := make(map[string]*tensor.RawTensor)
	body := make(map[string]*tensor.RawTensor)
	for key, raw := range stateDict {
		if len(key) > 3 && key[:3] == "fc." {
			head[key[3:]] = raw
		} else {
			body[key] = raw
		}
	}
	if err := c.model.LoadStateDict(body); err != nil {
		return errors.Wrap(err, "classifier backbone")
	}
	if err := c.fc.LoadStateDict(head); err != nil {
		return errors.Wrap(err, "classifier head")
	}
	return nil
}

// NumParameters counts the scalar elements of every parameter of l.
func NumParameters[B tensor.Backend](l nn.Layer[B]) int {
	total := 0
	for _, p := range l.Parameters() {
		total += p.Tensor().NumElements()
	}
	return total
}
