package camera_test

import (
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/jakecoffman/cp"
	"github.com/san-kum/gravsim/internal/camera"
	"github.com/san-kum/gravsim/internal/input"
)

func TestCamera(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Camera Suite")
}

var _ = Describe("View", func() {
	var (
		view *camera.View
		in   *input.Controller
	)

	BeforeEach(func() {
		view = camera.New(camera.DefaultParams(), camera.DefaultBindings(), nil)
		in = input.NewController()
	})

	It("starts at the origin with the default zoom", func() {
		Expect(view.Pan).To(Equal(cp.Vector{}))
		Expect(view.Zoom).To(Equal(camera.DefaultZoom))
		Expect(view.Texture()).To(Equal("moon"))
	})

	Context("while a pan key is held", func() {
		BeforeEach(func() {
			in.Press("d")
		})

		It("moves at pan speed divided by zoom", func() {
			view.Update(0.5, in)
			Expect(view.PanVelocity.X).To(BeNumerically("~", camera.DefaultPanSpeed/camera.DefaultZoom, 1e-9))
			Expect(view.Pan.X).To(BeNumerically("~", 2, 1e-9))
		})

		It("damps after the key is released", func() {
			view.Update(0.1, in)
			in.Advance()
			in.Release("d")

			before := view.PanVelocity.Length()
			for i := 0; i < 10; i++ {
				view.Update(0.1, in)
				in.Advance()
			}
			Expect(view.PanVelocity.Length()).To(BeNumerically("<", before))
			Expect(view.PanVelocity.Length()).To(BeNumerically(">", 0))
		})
	})

	Context("with no input", func() {
		It("leaves a resting camera untouched", func() {
			for i := 0; i < 5; i++ {
				view.Update(1.0/60, in)
				in.Advance()
			}
			Expect(view.Pan).To(Equal(cp.Vector{}))
			Expect(view.Rotation).To(BeZero())
			Expect(view.Zoom).To(Equal(camera.DefaultZoom))
		})
	})

	Context("with custom bindings", func() {
		It("follows the remapped keys", func() {
			b := camera.DefaultBindings()
			b.ZoomIn = "i"
			view = camera.New(camera.DefaultParams(), b, []string{"a", "b", "c"})

			in.Press("up")
			view.Update(0.1, in)
			Expect(view.Zoom).To(Equal(camera.DefaultZoom))

			in.Press("i")
			view.Update(0.1, in)
			Expect(view.Zoom).To(BeNumerically(">", camera.DefaultZoom))
			Expect(view.Textures()).To(HaveLen(3))
		})
	})
})
