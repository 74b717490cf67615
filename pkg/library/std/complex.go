package std

import "github.com/matzehuels/flamelink/pkg/library"

func registerComplex(t *library.Table) {
	t.Register(library.Function{ID: Complex, Source: `struct Complex {
    re: f32,
    im: f32,
}

fn c_add(a: Complex, b: Complex) -> Complex {
    return Complex(a.re + b.re, a.im + b.im);
}

fn c_sub(a: Complex, b: Complex) -> Complex {
    return Complex(a.re - b.re, a.im - b.im);
}

fn c_mul(a: Complex, b: Complex) -> Complex {
    return Complex(a.re * b.re - a.im * b.im, a.re * b.im + a.im * b.re);
}

fn c_scale(a: Complex, s: f32) -> Complex {
    return Complex(a.re * s, a.im * s);
}

fn c_div(a: Complex, b: Complex) -> Complex {
    let d = b.re * b.re + b.im * b.im + EPS;
    return Complex((a.re * b.re + a.im * b.im) / d, (a.im * b.re - a.re * b.im) / d);
}

fn c_abs(a: Complex) -> f32 {
    return sqrt(a.re * a.re + a.im * a.im);
}

fn c_arg(a: Complex) -> f32 {
    return atan2(a.im, a.re);
}
`})

	t.Register(library.Function{ID: ComplexTrans, Requires: []string{Complex}, Source: `fn c_exp(a: Complex) -> Complex {
    let e = exp(a.re);
    return Complex(e * cos(a.im), e * sin(a.im));
}

fn c_log(a: Complex) -> Complex {
    return Complex(log(c_abs(a) + EPS), c_arg(a));
}

fn c_pow(a: Complex, p: f32) -> Complex {
    let r = pow(c_abs(a), p);
    let t = c_arg(a) * p;
    return Complex(r * cos(t), r * sin(t));
}

fn c_sqrt(a: Complex) -> Complex {
    return c_pow(a, 0.5);
}
`})

	t.Register(library.Function{ID: ComplexTrig, Requires: []string{Complex}, Source: `fn c_sin(a: Complex) -> Complex {
    return Complex(sin(a.re) * cosh(a.im), cos(a.re) * sinh(a.im));
}

fn c_cos(a: Complex) -> Complex {
    return Complex(cos(a.re) * cosh(a.im), -sin(a.re) * sinh(a.im));
}

fn c_tan(a: Complex) -> Complex {
    return c_div(c_sin(a), c_cos(a));
}

fn c_sinh(a: Complex) -> Complex {
    return Complex(sinh(a.re) * cos(a.im), cosh(a.re) * sin(a.im));
}

fn c_cosh(a: Complex) -> Complex {
    return Complex(cosh(a.re) * cos(a.im), sinh(a.re) * sin(a.im));
}

fn c_tanh(a: Complex) -> Complex {
    return c_div(c_sinh(a), c_cosh(a));
}
`})
}
