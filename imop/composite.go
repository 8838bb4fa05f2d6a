// Package imop implements the Porter-Duff composition operations
// used for mixing a graphic element with its backdrop.
// Porter and Duff presented in their paper 12 different composition
// operations, but the image/draw core package implements only the
// source-over-destination and source. This package is aimed to overcome
// the missing composite operations.
//
// The canvas compositor uses the source-over operator to flatten the
// layer stack; the remaining operators and the separable blend modes are
// available for per-layer composition effects.
package imop

import (
	"image"

	"github.com/esimov/daub/utils"
)

const (
	Copy    = "copy"
	SrcOver = "src_over"
	DstOver = "dst_over"
	SrcIn   = "src_in"
	DstIn   = "dst_in"
	SrcOut  = "src_out"
	DstOut  = "dst_out"
	SrcAtop = "src_atop"
	DstAtop = "dst_atop"
	Xor     = "xor"
)

// Bitmap holds the destination image of a composition operation.
type Bitmap struct {
	Img *image.NRGBA
}

// Composite holds the currently active composition operation.
type Composite struct {
	current string
	ops     []string
}

// NewBitmap initializes a new composition destination of the given size.
func NewBitmap(rect image.Rectangle) *Bitmap {
	return &Bitmap{
		Img: image.NewNRGBA(rect),
	}
}

// InitOp initializes a new composition operation with source-over
// as the default operator.
func InitOp() *Composite {
	return &Composite{
		current: SrcOver,
		ops: []string{
			Copy,
			SrcOver,
			DstOver,
			SrcIn,
			DstIn,
			SrcOut,
			DstOut,
			SrcAtop,
			DstAtop,
			Xor,
		},
	}
}

// Set activates one of the supported composition operations.
func (op *Composite) Set(cop string) {
	if utils.Contains(op.ops, cop) {
		op.current = cop
	}
}

// Get returns the currently active composition operation.
func (op *Composite) Get() string {
	return op.current
}

// Draw applies the currently active composition operation over the source
// and backdrop image and writes the result into the bitmap. When a blend
// mode is provided the source colors are first mixed with the backdrop
// colors in proportion of the backdrop coverage.
//
// The composition formulas operate on premultiplied components; the result
// is stored back in non-premultiplied form.
func (op *Composite) Draw(bitmap *Bitmap, src, dst *image.NRGBA, blend *Blend) {
	if bitmap == nil {
		bitmap = NewBitmap(src.Bounds())
	}
	dx, dy := src.Bounds().Dx(), src.Bounds().Dy()

	for y := 0; y < dy; y++ {
		for x := 0; x < dx; x++ {
			si := src.PixOffset(x, y)
			di := dst.PixOffset(x, y)
			oi := bitmap.Img.PixOffset(x, y)

			rsn := float64(src.Pix[si+0]) / 255
			gsn := float64(src.Pix[si+1]) / 255
			bsn := float64(src.Pix[si+2]) / 255
			asn := float64(src.Pix[si+3]) / 255

			rbn := float64(dst.Pix[di+0]) / 255
			gbn := float64(dst.Pix[di+1]) / 255
			bbn := float64(dst.Pix[di+2]) / 255
			abn := float64(dst.Pix[di+3]) / 255

			if blend != nil {
				rsn = utils.Lerp(rsn, blend.apply(rbn, rsn), abn)
				gsn = utils.Lerp(gsn, blend.apply(gbn, gsn), abn)
				bsn = utils.Lerp(bsn, blend.apply(bbn, bsn), abn)
			}

			// premultiplied source and backdrop components
			prs, pgs, pbs := rsn*asn, gsn*asn, bsn*asn
			prb, pgb, pbb := rbn*abn, gbn*abn, bbn*abn

			var pr, pg, pb, an float64

			// applying the alpha composition formula
			switch op.current {
			case Copy:
				pr, pg, pb = prs, pgs, pbs
				an = asn
			case SrcOver:
				pr = prs + prb*(1-asn)
				pg = pgs + pgb*(1-asn)
				pb = pbs + pbb*(1-asn)
				an = asn + abn*(1-asn)
			case DstOver:
				pr = prs*(1-abn) + prb
				pg = pgs*(1-abn) + pgb
				pb = pbs*(1-abn) + pbb
				an = asn*(1-abn) + abn
			case SrcIn:
				pr, pg, pb = prs*abn, pgs*abn, pbs*abn
				an = asn * abn
			case DstIn:
				pr, pg, pb = prb*asn, pgb*asn, pbb*asn
				an = abn * asn
			case SrcOut:
				pr, pg, pb = prs*(1-abn), pgs*(1-abn), pbs*(1-abn)
				an = asn * (1 - abn)
			case DstOut:
				pr, pg, pb = prb*(1-asn), pgb*(1-asn), pbb*(1-asn)
				an = abn * (1 - asn)
			case SrcAtop:
				pr = prs*abn + prb*(1-asn)
				pg = pgs*abn + pgb*(1-asn)
				pb = pbs*abn + pbb*(1-asn)
				an = abn
			case DstAtop:
				pr = prb*asn + prs*(1-abn)
				pg = pgb*asn + pgs*(1-abn)
				pb = pbb*asn + pbs*(1-abn)
				an = asn
			case Xor:
				pr = prs*(1-abn) + prb*(1-asn)
				pg = pgs*(1-abn) + pgb*(1-asn)
				pb = pbs*(1-abn) + pbb*(1-asn)
				an = asn*(1-abn) + abn*(1-asn)
			default:
				continue
			}

			var rn, gn, bn float64
			if an > 0 {
				rn, gn, bn = pr/an, pg/an, pb/an
			}

			bitmap.Img.Pix[oi+0] = uint8(rn*255 + 0.5)
			bitmap.Img.Pix[oi+1] = uint8(gn*255 + 0.5)
			bitmap.Img.Pix[oi+2] = uint8(bn*255 + 0.5)
			bitmap.Img.Pix[oi+3] = uint8(an*255 + 0.5)
		}
	}
}
