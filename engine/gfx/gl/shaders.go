package glbackend

// Vertex attributes: position (x, y), atlas uv, label id. The label id
// addresses two texels of u_transforms, the primary bytes and the
// precision residuals, laid out as in engine/transform.
const vertexSource = `
#version 330 core
layout(location=0) in vec2 aPos;
layout(location=1) in vec2 aUV;
layout(location=2) in float aID;

uniform sampler2D u_transforms;
uniform ivec2 u_tresolution;
uniform vec2 u_resolution;
uniform mat4 u_proj;

out vec2 vUV;
out float vAlpha;

const float TWO_PI = 6.28318530718;

void main() {
    int w = int(aID + 0.5) * 2;
    ivec2 ij = ivec2(w % u_tresolution.x, w / u_tresolution.x);

    vec4 t = texelFetch(u_transforms, ij, 0);
    vec4 p = texelFetch(u_transforms, ij + ivec2(1, 0), 0);

    // primary byte plus the residual recovered from the precision texel
    float tx = u_resolution.x * (t.x + p.x / 255.0);
    float ty = u_resolution.y * (t.y + p.y / 255.0);
    float theta = (t.z + p.z / 255.0) * TWO_PI;

    float st = sin(theta);
    float ct = cos(theta);
    vec4 pos = vec4(
        aPos.x * ct - aPos.y * st + tx,
        aPos.x * st + aPos.y * ct + ty,
        0.0, 1.0
    );

    gl_Position = u_proj * pos;
    vUV = aUV;
    vAlpha = t.a;
}
` + "\x00"

const defaultFragmentSource = `
#version 330 core
uniform sampler2D u_tex;
uniform vec4 u_color;

in vec2 vUV;
in float vAlpha;
out vec4 FragColor;

void main() {
    if (vAlpha == 0.0) {
        discard;
    }
    float coverage = texture(u_tex, vUV).r;
    FragColor = vec4(u_color.rgb, u_color.a * coverage * vAlpha);
}
` + "\x00"

const sdfFragmentSource = `
#version 330 core
uniform sampler2D u_tex;
uniform vec4 u_color;
uniform vec4 u_outlineColor;
uniform vec4 u_sdfParams; // outline min, outline max, inside min, inside max
uniform float u_mixFactor;

in vec2 vUV;
in float vAlpha;
out vec4 FragColor;

void main() {
    if (vAlpha == 0.0) {
        discard;
    }
    float d = texture(u_tex, vUV).r;
    vec4 inside = smoothstep(u_sdfParams.z, u_sdfParams.w, d) * u_color;
    vec4 outline = smoothstep(u_sdfParams.x, u_sdfParams.y, d) * u_outlineColor;
    vec4 c = mix(outline, inside, u_mixFactor);
    FragColor = vec4(c.rgb, c.a * vAlpha);
}
` + "\x00"
